package db

import (
	"strings"
	"testing"
)

func TestMySQLDSNEnablesParseTime(t *testing.T) {
	cases := []string{
		"armazem:secret@tcp(localhost:3306)/armazem",
		"armazem:secret@tcp(localhost:3306)/armazem?charset=utf8mb4",
		"armazem:secret@tcp(localhost:3306)/armazem?parseTime=false",
	}
	for _, in := range cases {
		got, err := mysqlDSN(in)
		if err != nil {
			t.Fatalf("mysqlDSN(%q): %v", in, err)
		}
		if !strings.Contains(got, "parseTime=true") {
			t.Errorf("mysqlDSN(%q) = %q, want parseTime=true", in, got)
		}
		if !strings.Contains(got, "tcp(localhost:3306)/armazem") {
			t.Errorf("mysqlDSN(%q) = %q, lost address or database", in, got)
		}
	}
}

func TestMySQLDSNInvalid(t *testing.T) {
	if _, err := mysqlDSN("not a dsn"); err == nil {
		t.Fatal("expected error for malformed dsn")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("oracle", "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
