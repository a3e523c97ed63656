package sheet

import (
	"reflect"
	"testing"
	"time"
)

var ref = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want []string
	}{
		{
			name: "valid row",
			row:  Row{"Name": "Bob", "Amount": 50.0, "Date": "2025-06-10"},
			want: nil,
		},
		{
			name: "missing name",
			row:  Row{"Amount": 50.0, "Date": "2025-06-10"},
			want: []string{MsgRequiredFields},
		},
		{
			name: "missing amount",
			row:  Row{"Name": "Bob", "Date": "2025-06-10"},
			want: []string{MsgRequiredFields},
		},
		{
			name: "missing date fails both required and month rules",
			row:  Row{"Name": "Bob", "Amount": 50.0},
			want: []string{MsgRequiredFields, MsgCurrentMonth},
		},
		{
			name: "empty string name is absent",
			row:  Row{"Name": "", "Amount": 50.0, "Date": "2025-06-10"},
			want: []string{MsgRequiredFields},
		},
		{
			name: "negative amount",
			row:  Row{"Name": "Bob", "Amount": -5.0, "Date": "2025-06-10"},
			want: []string{MsgPositiveAmount},
		},
		{
			name: "zero amount is both absent and non-positive",
			row:  Row{"Name": "Bob", "Amount": 0.0, "Date": "2025-06-10"},
			want: []string{MsgRequiredFields, MsgPositiveAmount},
		},
		{
			name: "non-numeric amount slips past the positive rule",
			row:  Row{"Name": "Bob", "Amount": "fifty", "Date": "2025-06-10"},
			want: nil,
		},
		{
			name: "previous month",
			row:  Row{"Name": "Bob", "Amount": 50.0, "Date": "2025-05-10"},
			want: []string{MsgCurrentMonth},
		},
		{
			name: "same month last year",
			row:  Row{"Name": "Bob", "Amount": 50.0, "Date": "2024-06-10"},
			want: []string{MsgCurrentMonth},
		},
		{
			name: "unparseable date fails the month rule",
			row:  Row{"Name": "Bob", "Amount": 50.0, "Date": "not a date"},
			want: []string{MsgCurrentMonth},
		},
		{
			name: "wrong month and bad amount collect independently",
			row:  Row{"Name": "Bob", "Amount": -5.0, "Date": "2025-01-10"},
			want: []string{MsgCurrentMonth, MsgPositiveAmount},
		},
		{
			name: "everything wrong",
			row:  Row{},
			want: []string{MsgRequiredFields, MsgCurrentMonth},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.row, ref)
			var descs []string
			for _, e := range got {
				if e.Row != UnassignedRow {
					t.Errorf("Validate() error row = %d, want %d before assignment", e.Row, UnassignedRow)
				}
				descs = append(descs, e.Description)
			}
			if !reflect.DeepEqual(descs, tt.want) {
				t.Errorf("Validate() = %v, want %v", descs, tt.want)
			}
		})
	}
}

func TestValidate_Idempotent(t *testing.T) {
	row := Row{"Name": "Bob", "Amount": -5.0, "Date": "2025-01-10"}

	first := Validate(row, ref)
	second := Validate(row, ref)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Validate() not idempotent: %v then %v", first, second)
	}
}

func TestValidate_ExcelSerialDate(t *testing.T) {
	// Serial 45818 is 2025-06-10 in the 1900 date system.
	row := Row{"Name": "Bob", "Amount": 50.0, "Date": 45818.0}

	if errs := Validate(row, ref); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors for serial date in month", errs)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
		ok    bool
	}{
		{"iso date", "2025-06-10", "2025-06-10", true},
		{"slash date", "2025/06/10", "2025-06-10", true},
		{"us date", "06/10/2025", "2025-06-10", true},
		{"rfc3339", "2025-06-10T08:30:00Z", "2025-06-10", true},
		{"excel serial", 45818.0, "2025-06-10", true},
		{"garbage", "tomorrow-ish", "", false},
		{"empty", "", "", false},
		{"nil", nil, "", false},
		{"bool", true, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.value)
			if ok != tt.ok {
				t.Fatalf("ParseDate(%v) ok = %v, want %v", tt.value, ok, tt.ok)
			}
			if ok && got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseDate(%v) = %s, want %s", tt.value, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		value any
		want  bool
	}{
		{nil, false},
		{"", false},
		{" ", true},
		{"Bob", true},
		{0.0, false},
		{-5.0, true},
		{50.0, true},
		{false, false},
		{true, true},
	}

	for _, tt := range tests {
		if got := Truthy(tt.value); got != tt.want {
			t.Errorf("Truthy(%#v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
