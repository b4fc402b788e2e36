package repository

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolationCode はPostgreSQLの一意制約違反エラーコード。
const uniqueViolationCode = "23505"

// IsUniqueViolation はエラーがPostgreSQLの一意制約違反かを判定する。
// サービス層が存在チェック後の挿入レースをConflictとして扱うために使用する。
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}
