package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/Dosada05/tournament-tracker/models"
)

// Params holds loosely-typed request input. A missing key means the field
// was not sent; a nil value means it was sent as JSON null.
type Params map[string]*string

// Lookup returns the raw value and whether the key was sent at all.
func (p Params) Lookup(key string) (*string, bool) {
	v, ok := p[key]
	return v, ok
}

// String returns the trimmed value or "" when absent or null.
func (p Params) String(key string) string {
	if v := p[key]; v != nil {
		return strings.TrimSpace(*v)
	}
	return ""
}

type FieldState int

const (
	FieldUnset   FieldState = iota // не передано, поле не трогаем
	FieldClear                     // передано пустым, сбрасываем в null
	FieldValue                     // корректное значение
	FieldInvalid                   // мусор, отклоняем всё обновление
)

// Field is the normalized form of an optional enum input.
type Field[T any] struct {
	State FieldState
	Value T
}

// Ptr returns nil for a cleared field and a pointer to the value otherwise.
func (f Field[T]) Ptr() *T {
	if f.State != FieldValue {
		return nil
	}
	v := f.Value
	return &v
}

// ToIntOrNull never reports invalid input: anything non-numeric becomes nil.
func ToIntOrNull(v *string) *int {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	t := math.Trunc(f)
	if t < math.MinInt || t >= math.MaxInt+1 {
		return nil
	}
	n := int(t)
	return &n
}

func NormalizeResult(v *string, present bool) Field[models.GameResult] {
	return normalizeEnum(v, present, models.GameWin, models.GameLoss, models.GameTie)
}

func NormalizeTurn(v *string, present bool) Field[models.Turn] {
	return normalizeEnum(v, present, models.TurnFirst, models.TurnSecond)
}

func NormalizeSpecial(v *string, present bool) Field[models.Special] {
	return normalizeEnum(v, present, models.SpecialID, models.SpecialNoShow, models.SpecialBye)
}

func normalizeEnum[T ~string](v *string, present bool, allowed ...T) Field[T] {
	if !present {
		return Field[T]{State: FieldUnset}
	}
	if v == nil {
		return Field[T]{State: FieldClear}
	}
	s := strings.TrimSpace(*v)
	if s == "" || strings.EqualFold(s, "null") {
		return Field[T]{State: FieldClear}
	}
	for _, a := range allowed {
		if strings.EqualFold(s, string(a)) {
			return Field[T]{State: FieldValue, Value: a}
		}
	}
	return Field[T]{State: FieldInvalid}
}

// NormalizeFinalResult matches case-insensitively against models.FinalResults.
func NormalizeFinalResult(s string) (models.FinalResult, bool) {
	s = strings.TrimSpace(s)
	for _, r := range models.FinalResults {
		if strings.EqualFold(s, string(r)) {
			return r, true
		}
	}
	return "", false
}
