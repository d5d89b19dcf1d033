package sunat

import "fmt"

// pesos del dígito verificador del RUC, aplicados a los 10 primeros dígitos.
var rucWeights = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// prefijos válidos: 10 persona natural, 15/16/17 otros, 20 persona jurídica.
var rucPrefixes = map[string]bool{"10": true, "15": true, "16": true, "17": true, "20": true}

// ValidateRUC verifica longitud, prefijo y dígito verificador (módulo 11).
func ValidateRUC(ruc string) error {
	if len(ruc) != 11 {
		return fmt.Errorf("sunat: el RUC debe tener 11 dígitos, se recibieron %d", len(ruc))
	}
	for _, r := range ruc {
		if r < '0' || r > '9' {
			return fmt.Errorf("sunat: el RUC solo admite dígitos")
		}
	}
	if !rucPrefixes[ruc[:2]] {
		return fmt.Errorf("sunat: prefijo de RUC %s inválido", ruc[:2])
	}
	expected, _ := ComputeRUCCheckDigit(ruc[:10])
	if ruc[10] != expected {
		return fmt.Errorf("sunat: dígito verificador del RUC inválido: esperado %c, recibido %c", expected, ruc[10])
	}
	return nil
}

// ComputeRUCCheckDigit calcula el dígito verificador para los 10 primeros dígitos.
func ComputeRUCCheckDigit(base string) (byte, error) {
	if len(base) != 10 {
		return 0, fmt.Errorf("sunat: se requieren 10 dígitos, se recibieron %d", len(base))
	}
	var sum int
	for i := 0; i < 10; i++ {
		d := base[i]
		if d < '0' || d > '9' {
			return 0, fmt.Errorf("sunat: carácter no numérico %q", d)
		}
		sum += int(d-'0') * rucWeights[i]
	}
	dv := 11 - sum%11
	switch dv {
	case 10:
		dv = 0
	case 11:
		dv = 1
	}
	return byte('0' + dv), nil
}
