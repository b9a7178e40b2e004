package query

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sqlean/sqlean/internal/errors"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { db.Close() })

	stmts := []string{
		"CREATE TABLE employees (id INTEGER PRIMARY KEY, name TEXT, department TEXT)",
		"INSERT INTO employees VALUES (1, 'Alice', 'Engineering')",
		"INSERT INTO employees VALUES (2, 'Bob', 'Marketing')",
		"INSERT INTO employees VALUES (3, 'Charlie', 'Engineering')",
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatal(err)
		}
	}
	return db
}

func TestExecute_Select(t *testing.T) {
	db := openTestDB(t)
	exec := NewExecutor(time.Second)

	result := exec.Execute(context.Background(), db, "SELECT id, name FROM employees ORDER BY id")
	if result.Failed() {
		t.Fatalf("unexpected failure: %v", result.Err)
	}
	if !result.HasRows() {
		t.Fatal("SELECT should produce a result set")
	}
	if len(result.Columns) != 2 || result.Columns[0] != "id" || result.Columns[1] != "name" {
		t.Errorf("column order not preserved: %v", result.Columns)
	}
	if result.RowCount() != 3 {
		t.Fatalf("expected 3 rows, got %d", result.RowCount())
	}
	if result.Rows[0][1] != "Alice" {
		t.Errorf("row order not preserved: %v", result.Rows[0])
	}
	if result.AttemptID == "" {
		t.Error("attempt id not assigned")
	}
}

func TestExecute_DML(t *testing.T) {
	db := openTestDB(t)
	exec := NewExecutor(time.Second)

	result := exec.Execute(context.Background(), db, "DELETE FROM employees WHERE id = 2")
	if result.Failed() {
		t.Fatalf("unexpected failure: %v", result.Err)
	}
	if result.HasRows() {
		t.Error("DELETE should not produce a result set")
	}

	check := exec.Execute(context.Background(), db, "SELECT COUNT(*) FROM employees")
	if check.Rows[0][0] != int64(2) {
		t.Errorf("mutation not applied, count = %v", check.Rows[0][0])
	}
}

func TestExecute_SyntaxErrorIsRecoverable(t *testing.T) {
	db := openTestDB(t)
	exec := NewExecutor(time.Second)

	result := exec.Execute(context.Background(), db, "SELEC * FROM employees")
	if !result.Failed() {
		t.Fatal("expected failure for syntax error")
	}
	if errors.GetCode(result.Err) != errors.CodeExecutionFailed {
		t.Errorf("expected EXECUTION_FAILED, got %s", errors.GetCode(result.Err))
	}
	if !errors.IsRecoverable(result.Err) {
		t.Error("engine errors must be recoverable")
	}
	if !strings.Contains(result.Err.Error(), "syntax error") {
		t.Errorf("expected the engine's syntax error text, got %q", result.Err.Error())
	}
}

func TestExecute_ConstraintViolation(t *testing.T) {
	db := openTestDB(t)
	exec := NewExecutor(time.Second)

	result := exec.Execute(context.Background(), db,
		"INSERT INTO employees VALUES (1, 'Dup', 'Sales')")
	if !result.Failed() {
		t.Fatal("expected failure for primary-key violation")
	}
	if !errors.IsRecoverable(result.Err) {
		t.Error("constraint violations must be recoverable")
	}
}

func TestExecute_Timeout(t *testing.T) {
	db := openTestDB(t)
	exec := NewExecutor(50 * time.Millisecond)

	// Recursive CTE with no terminating condition burns until cancelled
	result := exec.Execute(context.Background(), db,
		"WITH RECURSIVE c(x) AS (SELECT 1 UNION ALL SELECT x+1 FROM c) SELECT COUNT(*) FROM c")
	if !result.Failed() {
		t.Fatal("expected timeout failure")
	}
	if errors.GetCode(result.Err) != errors.CodeExecutionTimeout {
		t.Errorf("expected EXECUTION_TIMEOUT, got %s (%v)", errors.GetCode(result.Err), result.Err)
	}
	if !errors.IsRecoverable(result.Err) {
		t.Error("timeouts must be recoverable")
	}
}

func TestExecute_MultiStatementBatch(t *testing.T) {
	db := openTestDB(t)
	exec := NewExecutor(time.Second)

	result := exec.Execute(context.Background(), db,
		"DELETE FROM employees WHERE id = 1; DELETE FROM employees WHERE id = 2;")
	if result.Failed() {
		t.Fatalf("unexpected failure: %v", result.Err)
	}

	check := exec.Execute(context.Background(), db, "SELECT COUNT(*) FROM employees")
	if check.Rows[0][0] != int64(1) {
		t.Errorf("batch not fully applied, count = %v", check.Rows[0][0])
	}
}

func TestExecute_SelectBehindBlockComment(t *testing.T) {
	db := openTestDB(t)
	exec := NewExecutor(time.Second)

	result := exec.Execute(context.Background(), db,
		"/* engineers */ SELECT name FROM employees WHERE department = 'Engineering'")
	if result.Failed() {
		t.Fatalf("unexpected failure: %v", result.Err)
	}
	if !result.HasRows() {
		t.Fatal("a commented SELECT must still produce a result set")
	}
	if result.RowCount() != 2 {
		t.Errorf("expected 2 rows, got %d", result.RowCount())
	}
}

func TestReturnsRows(t *testing.T) {
	tests := []struct {
		sql  string
		want bool
	}{
		{"SELECT * FROM employees", true},
		{"  select 1", true},
		{"WITH c AS (SELECT 1) SELECT * FROM c", true},
		{"VALUES (1), (2)", true},
		{"PRAGMA table_info(employees)", true},
		{"EXPLAIN SELECT 1", true},
		{"INSERT INTO t VALUES (1)", false},
		{"UPDATE t SET x = 1", false},
		{"DELETE FROM t", false},
		{"CREATE TABLE t (id INTEGER)", false},
		{"DROP TABLE t", false},
		{"-- leading comment\nSELECT 1", true},
		{"-- only a comment", false},
		{"SELECT(1)", true},
		{"/* block comment */ SELECT 1", true},
		{"/* multi\nline */\nSELECT 1", true},
		{"/* a */ /* b */ -- c\nSELECT 1", true},
		{"/* unterminated SELECT 1", false},
		{"/* comment */ DELETE FROM t", false},
		{"; SELECT 1", true},
		{";;", false},
	}

	for _, tt := range tests {
		if got := ReturnsRows(tt.sql); got != tt.want {
			t.Errorf("ReturnsRows(%q) = %v, want %v", tt.sql, got, tt.want)
		}
	}
}
