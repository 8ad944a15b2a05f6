package db

import "testing"

func TestNewPSQLStorageRequiresURL(t *testing.T) {
	t.Setenv("DB_URL", "")

	if _, err := NewPSQLStorage(); err == nil {
		t.Fatal("expected error when DB_URL is unset")
	}
}
