package mysql

const getEntrySQL = `
SELECT body, stored_at
FROM review_cache
WHERE cid = ?
`

const upsertEntrySQL = `
INSERT INTO review_cache
  (cid, body, stored_at)
VALUES
  (?, ?, ?)
ON DUPLICATE KEY UPDATE
  body      = VALUES(body),
  stored_at = VALUES(stored_at)
`

const deleteEntrySQL = `DELETE FROM review_cache WHERE cid = ?`

// stored_at is indexed, see migrations/001_review_cache.sql
const purgeEntriesSQL = `DELETE FROM review_cache WHERE stored_at < ?`
