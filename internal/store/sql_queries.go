package store

const (
	createUser = `INSERT INTO users (login, name, password_hash)
    VALUES ($1, $2, $3)
    RETURNING user_id, login, name, password_hash, created_at;`

	findUserByLogin = `SELECT user_id, login, name, password_hash, created_at
    FROM users
    WHERE login = $1;`

	// serializes concurrent deliveries of the same idempotency key
	lockIdempotencyKey = `SELECT pg_advisory_xact_lock(hashtextextended($1 || ':' || $2::text, 0));`

	findAppliedMutation = `SELECT server_id, entity_id
    FROM applied_mutations
    WHERE idempotency_key = $1 AND user_id = $2;`

	saveAppliedMutation = `INSERT INTO applied_mutations (idempotency_key, user_id, server_id, entity_id)
    VALUES ($1, $2, $3, $4);`

	createEntity = `INSERT INTO entities (id, user_id, entity_type, entity_id, payload, client_updated_at)
    VALUES ($1, $2, $3, $4, $5, $6);`

	// Last write wins by client timestamp. Top-level payload keys merge into
	// the stored document and a null value removes its key. Nested values
	// such as a session's groups array are replaced whole.
	updateEntity = `UPDATE entities
    SET payload = jsonb_strip_nulls(entities.payload || $1::jsonb), client_updated_at = $2, updated_at = NOW()
    WHERE user_id = $3 AND entity_type = $4 AND entity_id = $5
      AND deleted = FALSE AND client_updated_at <= $2
    RETURNING id;`

	deleteEntity = `UPDATE entities
    SET deleted = TRUE, client_updated_at = $1, updated_at = NOW()
    WHERE user_id = $2 AND entity_type = $3 AND entity_id = $4
      AND deleted = FALSE AND client_updated_at <= $1
    RETURNING id;`

	findEntity = `SELECT id, deleted
    FROM entities
    WHERE user_id = $1 AND entity_type = $2 AND entity_id = $3;`
)
