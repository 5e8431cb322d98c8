package dispatch

import "testing"

func TestResult_OK(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{200, true},
		{201, true},
		{299, true},
		{300, false},
		{199, false},
		{404, false},
		{0, false},
	}

	for _, tt := range tests {
		if got := (Result{Code: tt.code}).OK(); got != tt.want {
			t.Errorf("Result{Code: %d}.OK() = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestResult_String(t *testing.T) {
	tests := []struct {
		res  Result
		want string
	}{
		{ok(200), "200: OK"},
		{ok(201), "201: OK"},
		{remoteErr(404, "not found"), "404: not found"},
		{remoteErr(503, "unavailable"), "503: unavailable"},
		{requestErr("context deadline exceeded"), "Request error: context deadline exceeded"},
	}

	for _, tt := range tests {
		if got := tt.res.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
