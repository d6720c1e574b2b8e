package mysql

// SchemaSQL creates the fountains table. Kept here so the ingestor and
// the tests share one definition.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS fountains (
  id         VARCHAR(64)  NOT NULL,
  lat        DOUBLE       NOT NULL,
  lng        DOUBLE       NOT NULL,
  title      VARCHAR(255) NOT NULL,
  note       TEXT         NULL,
  photo_url  TEXT         NULL,
  photo_key  VARCHAR(255) NULL,
  updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  PRIMARY KEY (id),
  KEY idx_fountains_lat_lng (lat, lng)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const insertFountainsPrefix = `
INSERT INTO fountains
  (id, lat, lng, title, note, photo_url, photo_key)
VALUES `

const insertFountainsOnDup = `
ON DUPLICATE KEY UPDATE
  lat       = VALUES(lat),
  lng       = VALUES(lng),
  title     = VALUES(title),
  note      = VALUES(note),
  photo_url = VALUES(photo_url),
  photo_key = VALUES(photo_key)
`

const listFountainsSQL = `
SELECT id, lat, lng, title, note, photo_url, photo_key
FROM fountains
ORDER BY id
`
