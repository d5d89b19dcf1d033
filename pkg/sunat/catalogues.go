// Package sunat contiene catálogos y validaciones de la facturación
// electrónica peruana (SUNAT) usados por el XML UBL, el PDF y los clientes.
package sunat

// =============================================================================
// Catálogo 01 - Tipo de documento
// =============================================================================

const (
	DocTypeInvoice = "01" // Factura
	DocTypeReceipt = "03" // Boleta de venta
)

// =============================================================================
// Catálogo 06 - Tipo de documento de identidad
// =============================================================================

const (
	IdentityOther = "0" // Doc. trib. no dom. sin RUC
	IdentityDNI   = "1"
	IdentityCE    = "4" // Carné de extranjería
	IdentityRUC   = "6"
)

// IdentityCode traduce "DNI" | "CE" | "RUC" al código del catálogo 06.
func IdentityCode(docType string) string {
	switch docType {
	case "DNI":
		return IdentityDNI
	case "CE":
		return IdentityCE
	case "RUC":
		return IdentityRUC
	}
	return IdentityOther
}

// =============================================================================
// Catálogo 05 - Tributos
// =============================================================================

const (
	TaxIGVID       = "1000"
	TaxIGVName     = "IGV"
	TaxIGVTypeCode = "VAT"
)

// =============================================================================
// Catálogo 03 - Unidades de medida
// =============================================================================

const (
	UnitGoods    = "NIU" // Unidad (bienes)
	UnitServices = "ZZ"  // Unidad (servicios)
)
