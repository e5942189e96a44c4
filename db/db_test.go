package db

import (
	"strings"
	"testing"
)

func Test_normalizeMySQLDSN(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		wantErr bool
	}{
		{"plain", "root:@tcp(127.0.0.1:3306)/posts", false},
		{"already parsing time", "root:pw@tcp(db:3306)/posts?parseTime=true", false},
		{"garbage", "not a dsn", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeMySQLDSN(tt.dsn)
			if (err != nil) != tt.wantErr {
				t.Fatalf("normalizeMySQLDSN() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			for _, param := range []string{"parseTime=true", "clientFoundRows=true"} {
				if !strings.Contains(got, param) {
					t.Errorf("normalizeMySQLDSN() = %q, missing %s", got, param)
				}
			}
		})
	}
}

func TestOpen(t *testing.T) {
	if _, err := Open("", ""); err == nil {
		t.Errorf("Open() without any database should fail")
	}
	db, err := Open("", "file:db_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Open() sqlite error = %v", err)
	}
	Instance = db
	defer func() { Instance = nil }()
	if err = Ping(); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestPingWithoutInit(t *testing.T) {
	Instance = nil
	if err := Ping(); err == nil {
		t.Errorf("Ping() should fail before Init")
	}
}
