package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// SQLSTATE codes the repositories react to.
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	classConnection         = "08"
	codeAdminShutdown       = "57P01"
	codeCannotConnectNow    = "57P03"
)

// Store bundles the repositories sharing one pool.
type Store struct {
	Users  UserRepository
	Orders OrderRepository
}

// NewStore creates PostgreSQL-backed repositories on pool.
func NewStore(pool *pgxpool.Pool, logger zerolog.Logger) *Store {
	return &Store{
		Users:  NewUserRepository(pool, logger),
		Orders: NewOrderRepository(pool, logger),
	}
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// IsUnavailable reports whether err means the database could not be reached.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}

	code := pgCode(err)
	if strings.HasPrefix(code, classConnection) || code == codeAdminShutdown || code == codeCannotConnectNow {
		return true
	}

	return strings.Contains(err.Error(), "closed pool")
}

// encodeJSON marshals v for a JSONB column. Nil values are stored as NULL.
func encodeJSON(v map[string]string) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json column: %w", err)
	}
	return data, nil
}

// decodeJSON unmarshals a JSONB column. NULL decodes to a nil map.
func decodeJSON(data []byte) (map[string]string, error) {
	if data == nil {
		return nil, nil
	}
	var out map[string]string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode json column: %w", err)
	}
	return out, nil
}

// rawJSON returns data for a JSONB column, NULL when empty.
func rawJSON(data json.RawMessage) []byte {
	if len(data) == 0 {
		return nil
	}
	return []byte(data)
}

// likePattern builds an ILIKE substring pattern, escaping wildcards in q.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}
