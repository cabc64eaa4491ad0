// Package phone приводит номера контактов к виду, пригодному для отправки через провайдера.
package phone

import "strings"

// DefaultCallingCode - код страны по умолчанию (Индия)
const DefaultCallingCode = "91"

// nationalLength - длина национального мобильного номера
const nationalLength = 10

// Normalizer нормализует номера относительно домашнего кода страны
type Normalizer struct {
	CallingCode string
}

// NewNormalizer создает Normalizer, пустой код заменяется на DefaultCallingCode
func NewNormalizer(callingCode string) *Normalizer {
	callingCode = strings.TrimPrefix(strings.TrimSpace(callingCode), "+")
	if callingCode == "" {
		callingCode = DefaultCallingCode
	}
	return &Normalizer{CallingCode: callingCode}
}

var defaultNormalizer = NewNormalizer(DefaultCallingCode)

// Normalize нормализует номер с домашним кодом по умолчанию
func Normalize(raw string) string {
	return defaultNormalizer.Normalize(raw)
}

// Normalize приводит номер к E.164, если формат распознан.
// Нераспознанный номер возвращается без изменений (кроме удаления разделителей),
// ошибка доставки проявится позже на стороне провайдера.
func (n *Normalizer) Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	plus := strings.HasPrefix(trimmed, "+")

	var b strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return raw
	}

	if plus {
		return "+" + digits
	}
	if strings.HasPrefix(digits, "00") {
		return "+" + digits[2:]
	}
	if len(digits) == nationalLength {
		return "+" + n.CallingCode + digits
	}
	if len(digits) == len(n.CallingCode)+nationalLength && strings.HasPrefix(digits, n.CallingCode) {
		return "+" + digits
	}
	return digits
}
