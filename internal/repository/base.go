package repository

import "github.com/jmoiron/sqlx"

// pick returns exec when the caller runs inside a transaction, db otherwise.
func pick(db *sqlx.DB, exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return db
}

func lockClause(forUpdate bool) string {
	if forUpdate {
		return " FOR UPDATE"
	}
	return ""
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// examDepartment is the SQL form of matching.OwningDepartment for exams
// aliased as e; dean exams have none.
const examDepartment = `CASE WHEN e.kind = 'DEAN' THEN '' ELSE upper(coalesce(nullif(e.department, ''), substring(upper(e.course_codes[1]) from '^[A-Z]+'), '')) END`
