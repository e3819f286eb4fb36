package catalog

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS Axis (
	AxisId    INTEGER PRIMARY KEY,
	StartPos  INTEGER NOT NULL DEFAULT 0,
	EndPos    INTEGER NOT NULL DEFAULT 0,
	StepValue INTEGER NOT NULL DEFAULT 0
)`,
	`CREATE TABLE IF NOT EXISTS DataSets (
	DataSetId    INTEGER PRIMARY KEY AUTOINCREMENT,
	XValue       REAL    NOT NULL,
	YValue       REAL    NOT NULL,
	ZValue       REAL    NOT NULL,
	XScale       REAL    NOT NULL,
	YScale       REAL    NOT NULL,
	ZScale       REAL    NOT NULL,
	DataSize     INTEGER NOT NULL,
	StartPos     INTEGER NOT NULL DEFAULT 0,
	ConnectionId INTEGER NOT NULL,
	Version      INTEGER NOT NULL,
	UDDString    TEXT    NOT NULL,
	IsFileSystem INTEGER NOT NULL DEFAULT 1,
	FileName     TEXT    NOT NULL UNIQUE,
	Checksum     INTEGER
)`,
	`INSERT OR IGNORE INTO Axis (AxisId) VALUES (109), (110)`,
}

// SQLite is a Catalog backed by a single SQLite database connection.
// Each unit of work runs in one transaction, opened lazily by the first
// call after a Commit or Rollback.
type SQLite struct {
	path   string
	db     *sql.DB
	tx     *sql.Tx
	closed bool
}

// Open opens (creating if needed) the catalog database at path and
// ensures the Axis and DataSets tables exist.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	// One connection for the whole session.
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating catalog schema: %w", err)
		}
	}

	return &SQLite{path: path, db: db}, nil
}

// Path returns the database path.
func (c *SQLite) Path() string {
	return c.path
}

func (c *SQLite) begin() (*sql.Tx, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if c.tx != nil {
		return c.tx, nil
	}
	tx, err := c.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	c.tx = tx
	return tx, nil
}

// UpdateAxisBounds sets the start, end and step of an existing axis row.
func (c *SQLite) UpdateAxisBounds(a Axis) error {
	tx, err := c.begin()
	if err != nil {
		return err
	}
	res, err := tx.Exec(`UPDATE Axis SET StartPos=?, EndPos=?, StepValue=? WHERE AxisId=?`,
		a.Start, a.End, a.Step, a.ID)
	if err != nil {
		return fmt.Errorf("updating axis %d: %w", a.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating axis %d: %w", a.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrUnknownAxis, a.ID)
	}
	return nil
}

// InsertFileRecord adds one DataSets row.
func (c *SQLite) InsertFileRecord(r Record) error {
	tx, err := c.begin()
	if err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT INTO DataSets (XValue, YValue, ZValue,
		XScale, YScale, ZScale,
		DataSize, StartPos, ConnectionId,
		Version, UDDString, IsFileSystem,
		FileName, Checksum) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		r.Origin[0], r.Origin[1], r.Origin[2],
		r.Scale[0], r.Scale[1], r.Scale[2],
		r.DataSize, r.StartPos, r.ConnectionID,
		r.Version, r.UddString, r.IsFileSystem,
		r.FileName, checksumValue(r))
	if err != nil {
		return fmt.Errorf("inserting %s: %w", r.FileName, err)
	}
	return nil
}

// checksumValue stores a missing checksum as NULL; zero is a valid sum.
func checksumValue(r Record) any {
	if !r.HasChecksum {
		return nil
	}
	return int64(r.Checksum)
}

// Commit commits the pending unit. It is a no-op when nothing is pending.
func (c *SQLite) Commit() error {
	if c.closed {
		return ErrClosed
	}
	if c.tx == nil {
		return nil
	}
	tx := c.tx
	c.tx = nil
	return tx.Commit()
}

// Rollback discards the pending unit. It is a no-op when nothing is pending.
func (c *SQLite) Rollback() error {
	if c.tx == nil {
		return nil
	}
	tx := c.tx
	c.tx = nil
	return tx.Rollback()
}

// CloseAndCompact commits any pending unit, compacts the database and
// closes it. Calling it again returns nil.
func (c *SQLite) CloseAndCompact() error {
	if c.closed {
		return nil
	}
	if err := c.Commit(); err != nil {
		c.closed = true
		c.db.Close()
		return fmt.Errorf("committing: %w", err)
	}
	c.closed = true

	if _, err := c.db.Exec(`VACUUM`); err != nil {
		c.db.Close()
		return fmt.Errorf("compacting catalog: %w", err)
	}
	return c.db.Close()
}

// Close discards any pending unit and closes the database without
// compacting it. Calling it again returns nil.
func (c *SQLite) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	err := c.Rollback()
	if cerr := c.db.Close(); err == nil {
		err = cerr
	}
	return err
}

type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func (c *SQLite) querier() (querier, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if c.tx != nil {
		return c.tx, nil
	}
	return c.db, nil
}

// Records returns every DataSets row ordered by file name.
func (c *SQLite) Records() ([]Record, error) {
	q, err := c.querier()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(`SELECT XValue, YValue, ZValue, XScale, YScale, ZScale,
		DataSize, StartPos, ConnectionId, Version, UDDString, IsFileSystem,
		FileName, Checksum FROM DataSets ORDER BY FileName`)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var checksum sql.NullInt64
		if err := rows.Scan(&r.Origin[0], &r.Origin[1], &r.Origin[2],
			&r.Scale[0], &r.Scale[1], &r.Scale[2],
			&r.DataSize, &r.StartPos, &r.ConnectionID,
			&r.Version, &r.UddString, &r.IsFileSystem,
			&r.FileName, &checksum); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.Checksum, r.HasChecksum = uint32(checksum.Int64), checksum.Valid
		records = append(records, r)
	}
	return records, rows.Err()
}

// Axes returns the axis rows ordered by id.
func (c *SQLite) Axes() ([]Axis, error) {
	q, err := c.querier()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(`SELECT AxisId, StartPos, EndPos, StepValue FROM Axis ORDER BY AxisId`)
	if err != nil {
		return nil, fmt.Errorf("listing axes: %w", err)
	}
	defer rows.Close()

	var axes []Axis
	for rows.Next() {
		var a Axis
		if err := rows.Scan(&a.ID, &a.Start, &a.End, &a.Step); err != nil {
			return nil, fmt.Errorf("scanning axis: %w", err)
		}
		axes = append(axes, a)
	}
	return axes, rows.Err()
}
