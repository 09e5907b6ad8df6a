// Package docnumber genera números de documento legibles con sufijo
// secuencial diario: <PREFIX>-<DDMMYY>-<NNNN>, empezando en 0001 cada día.
//
// La asignación (leer el máximo del día e incrementar) debe ocurrir dentro de
// la misma transacción que inserta el documento; el esquema además impone
// unicidad sobre doc_number, y el llamador reintenta ante conflicto.
package docnumber

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Prefijos por tipo de documento.
const (
	PrefixReceiving = "RCV"
	PrefixOutgoing  = "OUT"
	PrefixRequest   = "REQ"
)

// DayStamp devuelve el componente de fecha DDMMYY para t.
func DayStamp(t time.Time) string {
	return t.Format("020106")
}

// Format arma el número completo, p. ej. Format("OUT", t, 7) -> "OUT-010124-0007".
func Format(prefix string, t time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, DayStamp(t), seq)
}

// DayPattern devuelve el patrón SQL LIKE que agrupa los documentos del día:
// "OUT-010124-%".
func DayPattern(prefix string, t time.Time) string {
	return fmt.Sprintf("%s-%s-%%", prefix, DayStamp(t))
}

// Seq extrae el sufijo numérico de un número de documento. Devuelve 0 si el
// número no tiene la forma esperada (mismo fallback que el original).
func Seq(docNumber string) int {
	idx := strings.LastIndex(docNumber, "-")
	if idx < 0 || idx == len(docNumber)-1 {
		return 0
	}
	n, err := strconv.Atoi(docNumber[idx+1:])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Next calcula el siguiente número a partir del último asignado hoy.
// lastDocNumber vacío significa que hoy no hay documentos: arranca en 0001.
func Next(prefix string, t time.Time, lastDocNumber string) string {
	return Format(prefix, t, Seq(lastDocNumber)+1)
}
