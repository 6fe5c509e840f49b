package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema mirrors the three document collections as tables. Patient ids of a
// service request are kept as a text array, like the array field they are in
// the document store.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id          TEXT PRIMARY KEY,
	nombre      TEXT NOT NULL,
	usuario     TEXT NOT NULL UNIQUE,
	password    TEXT NOT NULL,
	foto        TEXT NOT NULL DEFAULT '',
	verificado  TEXT NOT NULL DEFAULT 'No',
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS patients (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	fecha_nacimiento  TIMESTAMPTZ NOT NULL,
	genero            TEXT NOT NULL,
	descripcion       TEXT NOT NULL DEFAULT '',
	user_id           TEXT NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS service_requests (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	nurse_id         TEXT NOT NULL,
	patient_ids      TEXT[] NOT NULL,
	estado           TEXT NOT NULL DEFAULT 'pendiente',
	detalles         TEXT NOT NULL DEFAULT '',
	fecha            TIMESTAMPTZ NOT NULL,
	tarifa           DOUBLE PRECISION NOT NULL,
	pago_realizado   BOOLEAN NOT NULL DEFAULT FALSE,
	pago_liberado    BOOLEAN NOT NULL DEFAULT FALSE,
	documentacion    TEXT NOT NULL DEFAULT '',
	observaciones    TEXT NOT NULL DEFAULT '',
	recomendaciones  TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
);
`

func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
