// Package homework validates API responses and turns homework records into
// notification texts.
//
// Check order is load-bearing: existence before type before value, so the
// first reported problem always names the right key.
package homework

import "encoding/json"

// Verdicts is the closed table of known review outcomes.
var Verdicts = map[string]string{
	"approved":  "Работа проверена: ревьюеру всё понравилось. Ура!",
	"reviewing": "Работа взята на проверку ревьюером.",
	"rejected":  "Работа проверена: у ревьюера есть замечания.",
}

// NoNewStatuses is the candidate message for an empty homeworks list.
const NoNewStatuses = "Нет новых статусов домашних работ."

// Response is the validated shape of an API answer.
type Response struct {
	Homeworks   []any
	CurrentDate int64
}

// CheckResponse asserts the structural contract of a decoded API body before
// any field is trusted. It fails fast on the first broken invariant.
func CheckResponse(v any) (Response, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return Response{}, &ShapeError{Msg: "API response must be a mapping"}
	}

	hw, ok := m["homeworks"]
	if !ok {
		return Response{}, &MissingFieldError{Key: "homeworks"}
	}
	list, ok := hw.([]any)
	if !ok {
		return Response{}, &ShapeError{Msg: "homeworks must be a list"}
	}

	cd, ok := m["current_date"]
	if !ok {
		return Response{}, &MissingFieldError{Key: "current_date"}
	}
	date, ok := asInt64(cd)
	if !ok {
		return Response{}, &ShapeError{Msg: "current_date must be an integer"}
	}

	return Response{Homeworks: list, CurrentDate: date}, nil
}

// ParseStatus maps one homework record to its notification text.
func ParseStatus(rec any) (string, error) {
	m, ok := rec.(map[string]any)
	if !ok {
		return "", &ShapeError{Msg: "homework record must be a mapping"}
	}

	nameVal, ok := m["homework_name"]
	if !ok {
		return "", &MissingFieldError{Key: "homework_name"}
	}
	statusVal, ok := m["status"]
	if !ok {
		return "", &MissingFieldError{Key: "status"}
	}

	name, ok := nameVal.(string)
	if !ok {
		return "", &ShapeError{Msg: "homework_name must be a string"}
	}
	status, ok := statusVal.(string)
	if !ok {
		return "", &ShapeError{Msg: "status must be a string"}
	}

	verdict, ok := Verdicts[status]
	if !ok {
		return "", &UnknownStatusError{Status: status}
	}

	return `Изменился статус проверки работы "` + name + `". ` + verdict, nil
}

// asInt64 accepts the integer encodings a JSON decode can produce: a
// json.Number with no fractional part, or a float64 with an integral value
// (when the body was decoded without UseNumber).
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	case float64:
		i := int64(n)
		if float64(i) != n {
			return 0, false
		}
		return i, true
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
