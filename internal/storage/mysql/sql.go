package mysql

// Note: `comment` is a keyword in some contexts; keep it quoted.
const insertReviewsPrefix = "INSERT INTO reviews\n  (id, platform, rating, `comment`, review_date, reviewer, location, brand)\nVALUES "

const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  platform    = VALUES(platform),\n" +
	"  rating      = VALUES(rating),\n" +
	"  `comment`   = VALUES(`comment`),\n" +
	"  review_date = VALUES(review_date),\n" +
	"  reviewer    = VALUES(reviewer),\n" +
	"  location    = VALUES(location),\n" +
	"  brand       = VALUES(brand),\n" +
	"  updated_at  = CURRENT_TIMESTAMP\n"

const insertMissSQL = `
INSERT INTO ingest_misses (platform, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE http_status = VALUES(http_status), seen_at = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Snapshot order is first-insert order, so repeated loads see the same sequence.
const listReviewsSQL = "SELECT id, platform, rating, `comment`, review_date, reviewer, location, brand\n" +
	"FROM reviews\n" +
	"ORDER BY seq"
