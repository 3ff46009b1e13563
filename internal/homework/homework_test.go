package homework

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return v
}

func TestCheckResponseValid(t *testing.T) {
	t.Parallel()
	v := decode(t, `{"homeworks": [{"homework_name":"proj1","status":"approved"}], "current_date": 1000}`)

	resp, err := CheckResponse(v)
	if err != nil {
		t.Fatalf("CheckResponse error: %v", err)
	}
	if resp.CurrentDate != 1000 {
		t.Fatalf("CurrentDate = %d, want 1000", resp.CurrentDate)
	}
	if len(resp.Homeworks) != 1 {
		t.Fatalf("len(Homeworks) = %d, want 1", len(resp.Homeworks))
	}
}

func TestCheckResponseEmptyList(t *testing.T) {
	t.Parallel()
	resp, err := CheckResponse(decode(t, `{"homeworks": [], "current_date": 2000}`))
	if err != nil {
		t.Fatalf("CheckResponse error: %v", err)
	}
	if len(resp.Homeworks) != 0 || resp.CurrentDate != 2000 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCheckResponseRejects(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  string
		// key set means a MissingFieldError is expected; otherwise ShapeError.
		key string
	}{
		{name: "not a mapping", raw: `[1,2,3]`},
		{name: "missing homeworks", raw: `{"current_date": 1}`, key: "homeworks"},
		{name: "homeworks wrong type", raw: `{"homeworks": {}, "current_date": 1}`},
		{name: "missing current_date", raw: `{"homeworks": []}`, key: "current_date"},
		{name: "current_date wrong type", raw: `{"homeworks": [], "current_date": "soon"}`},
		{name: "current_date fractional", raw: `{"homeworks": [], "current_date": 1.5}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := CheckResponse(decode(t, tt.raw))
			if err == nil {
				t.Fatalf("CheckResponse(%s) expected error", tt.raw)
			}
			if tt.key != "" {
				var mf *MissingFieldError
				if !errors.As(err, &mf) {
					t.Fatalf("error = %v, want MissingFieldError", err)
				}
				if mf.Key != tt.key {
					t.Fatalf("missing key = %q, want %q", mf.Key, tt.key)
				}
			} else {
				var se *ShapeError
				if !errors.As(err, &se) {
					t.Fatalf("error = %v, want ShapeError", err)
				}
			}
		})
	}
}

// The existence check must come before the type check so the first reported
// problem names the right key even when several invariants are broken.
func TestCheckResponseOrder(t *testing.T) {
	t.Parallel()
	_, err := CheckResponse(decode(t, `{"homeworks": "nope"}`))
	var se *ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want ShapeError about homeworks", err)
	}
	if !strings.Contains(se.Msg, "homeworks") {
		t.Fatalf("shape error %q should name homeworks", se.Msg)
	}
}

func TestParseStatusVerdicts(t *testing.T) {
	t.Parallel()
	tests := []struct {
		status string
		want   string
	}{
		{"approved", `Изменился статус проверки работы "proj1". Работа проверена: ревьюеру всё понравилось. Ура!`},
		{"reviewing", `Изменился статус проверки работы "proj1". Работа взята на проверку ревьюером.`},
		{"rejected", `Изменился статус проверки работы "proj1". Работа проверена: у ревьюера есть замечания.`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.status, func(t *testing.T) {
			t.Parallel()
			rec := map[string]any{"homework_name": "proj1", "status": tt.status}
			got, err := ParseStatus(rec)
			if err != nil {
				t.Fatalf("ParseStatus error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseStatus = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseStatusRejects(t *testing.T) {
	t.Parallel()

	t.Run("missing homework_name", func(t *testing.T) {
		t.Parallel()
		_, err := ParseStatus(map[string]any{"status": "approved"})
		var mf *MissingFieldError
		if !errors.As(err, &mf) || mf.Key != "homework_name" {
			t.Fatalf("error = %v, want MissingFieldError{homework_name}", err)
		}
	})

	t.Run("missing status", func(t *testing.T) {
		t.Parallel()
		_, err := ParseStatus(map[string]any{"homework_name": "x"})
		var mf *MissingFieldError
		if !errors.As(err, &mf) || mf.Key != "status" {
			t.Fatalf("error = %v, want MissingFieldError{status}", err)
		}
	})

	// Both keys missing: homework_name is checked first.
	t.Run("both missing", func(t *testing.T) {
		t.Parallel()
		_, err := ParseStatus(map[string]any{})
		var mf *MissingFieldError
		if !errors.As(err, &mf) || mf.Key != "homework_name" {
			t.Fatalf("error = %v, want MissingFieldError{homework_name}", err)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		t.Parallel()
		_, err := ParseStatus(map[string]any{"homework_name": "x", "status": "unknown_code"})
		var us *UnknownStatusError
		if !errors.As(err, &us) {
			t.Fatalf("error = %v, want UnknownStatusError", err)
		}
		if us.Status != "unknown_code" {
			t.Fatalf("Status = %q, want unknown_code", us.Status)
		}
	})

	t.Run("not a mapping", func(t *testing.T) {
		t.Parallel()
		_, err := ParseStatus("nope")
		var se *ShapeError
		if !errors.As(err, &se) {
			t.Fatalf("error = %v, want ShapeError", err)
		}
	})
}
