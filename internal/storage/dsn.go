package storage

import (
	"strings"

	"github.com/xo/dburl"

	"sportetl/internal/etlerr"
)

// Backend kinds.
const (
	KindMySQL    = "mysql"
	KindPostgres = "postgres"
	KindMSSQL    = "mssql"
	KindSQLite   = "sqlite"
)

// schemeKinds maps URL schemes (including the dburl aliases) to backend kinds.
var schemeKinds = map[string]string{
	"mysql":      KindMySQL,
	"mariadb":    KindMySQL,
	"my":         KindMySQL,
	"postgres":   KindPostgres,
	"postgresql": KindPostgres,
	"pg":         KindPostgres,
	"pgsql":      KindPostgres,
	"sqlserver":  KindMSSQL,
	"mssql":      KindMSSQL,
	"ms":         KindMSSQL,
	"sqlite":     KindSQLite,
	"sqlite3":    KindSQLite,
}

func scheme(dsn string) string {
	i := strings.IndexByte(dsn, ':')
	if i <= 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(dsn[:i]))
}

// KindFromDSN returns the backend kind for a URL-style DSN.
func KindFromDSN(dsn string) (string, error) {
	s := scheme(dsn)
	if s == "" {
		return "", etlerr.Newf(etlerr.KindConfig, "storage.dsn",
			"unsupported dsn: missing scheme (want mysql://, postgres://, sqlserver:// or sqlite:)")
	}
	kind, ok := schemeKinds[s]
	if !ok {
		return "", etlerr.Newf(etlerr.KindConfig, "storage.dsn",
			"unsupported database scheme %q (want mysql, postgres, sqlserver or sqlite)", s)
	}
	return kind, nil
}

// Resolve turns a URL-style DSN into a backend Config whose DSN the driver
// accepts as-is:
//
//	mysql://root:pw@localhost/Sport_Db -> root:pw@tcp(localhost:3306)/Sport_Db
//	postgres://u:p@h/db                -> unchanged (pgx parses URLs)
//	sqlserver://u:p@h?database=db      -> unchanged
//	sqlite:data/sport.db               -> data/sport.db
func Resolve(dsn string) (Config, error) {
	dsn = strings.TrimSpace(dsn)
	kind, err := KindFromDSN(dsn)
	if err != nil {
		return Config{}, err
	}
	if kind == KindSQLite {
		path := sqlitePath(dsn)
		if path == "" {
			return Config{}, etlerr.Newf(etlerr.KindConfig, "storage.dsn", "sqlite dsn has no path")
		}
		return Config{Kind: kind, DSN: path}, nil
	}

	s := scheme(dsn)
	if (kind == KindPostgres && (s == "postgres" || s == "postgresql")) ||
		(kind == KindMSSQL && s == "sqlserver") {
		return Config{Kind: kind, DSN: dsn}, nil
	}
	u, err := dburl.Parse(dsn)
	if err != nil {
		return Config{}, etlerr.New(etlerr.KindConfig, "storage.dsn", err)
	}
	return Config{Kind: kind, DSN: u.DSN}, nil
}

// sqlitePath strips the scheme from sqlite:path, sqlite://path and
// sqlite:///abs/path. Query parameters are kept for the driver.
func sqlitePath(dsn string) string {
	rest := dsn[strings.IndexByte(dsn, ':')+1:]
	return strings.TrimPrefix(rest, "//")
}

// Redact returns dsn with any password replaced, for logging. Unparseable
// input is not echoed back.
func Redact(dsn string) string {
	if kind, err := KindFromDSN(dsn); err == nil && kind == KindSQLite {
		return dsn
	}
	u, err := dburl.Parse(dsn)
	if err != nil {
		return "<invalid dsn>"
	}
	return u.URL.Redacted()
}
