package embedding

import (
	"bytes"
	"database/sql"
	"encoding/binary"

	_ "modernc.org/sqlite"

	"todozi/internal/todozierr"
)

// ANNStore persists vectors to a SQLite database so large indexes survive
// restarts and can be scanned without holding everything resident. It is
// the optional acceleration path described for the embedding service: below
// Config.ANNThreshold entries, the in-memory Index's O(n) scan is plenty
// fast, so ANNStore is only wired in once the index grows past that.
//
// Real sqlite-vec ANN search needs the cgo build of
// github.com/asg017/sqlite-vec-go-bindings, which conflicts with this
// module's otherwise pure-Go modernc.org/sqlite driver; see ann_vec.go for
// the cgo-gated accelerated path and DESIGN.md for why the default build
// instead falls back to an exact brute-force scan over the same table.
type ANNStore struct {
	db  *sql.DB
	dim int
}

func OpenANNStore(path string, dim int) (*ANNStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, todozierr.Storage(err, "open ANN database at %s", path)
	}
	const schema = `CREATE TABLE IF NOT EXISTS ann_vectors (
		id TEXT PRIMARY KEY,
		content_type TEXT NOT NULL,
		embedding BLOB NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, todozierr.Storage(err, "create ANN schema")
	}
	return &ANNStore{db: db, dim: dim}, nil
}

func (a *ANNStore) Close() error { return a.db.Close() }

func encodeVector(v []float32) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, v)
	return buf.Bytes()
}

func decodeVector(b []byte, dim int) []float32 {
	v := make([]float32, dim)
	binary.Read(bytes.NewReader(b), binary.LittleEndian, &v)
	return v
}

// Upsert stores or replaces the vector for id.
func (a *ANNStore) Upsert(id string, contentType ContentType, vector []float32) error {
	_, err := a.db.Exec(
		`INSERT INTO ann_vectors (id, content_type, embedding) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET content_type = excluded.content_type, embedding = excluded.embedding`,
		id, string(contentType), encodeVector(vector),
	)
	if err != nil {
		return todozierr.Storage(err, "upsert ANN vector %s", id)
	}
	return nil
}

func (a *ANNStore) Delete(id string) error {
	_, err := a.db.Exec(`DELETE FROM ann_vectors WHERE id = ?`, id)
	if err != nil {
		return todozierr.Storage(err, "delete ANN vector %s", id)
	}
	return nil
}

// ANNMatch pairs a persisted vector's id with its similarity to a query.
type ANNMatch struct {
	ID         string
	Similarity float64
}

// Search performs an exact brute-force scan over every stored vector and
// returns the top k by cosine similarity, keyed by id. This is the fallback
// path used whenever the cgo-accelerated sqlite-vec build is unavailable.
func (a *ANNStore) Search(query []float32, k int) ([]ANNMatch, error) {
	rows, err := a.db.Query(`SELECT id, embedding FROM ann_vectors`)
	if err != nil {
		return nil, todozierr.Storage(err, "scan ANN vectors")
	}
	defer rows.Close()

	var ids []string
	var corpus [][]float32
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, todozierr.Storage(err, "decode ANN row")
		}
		ids = append(ids, id)
		corpus = append(corpus, decodeVector(blob, a.dim))
	}
	top, err := FindTopK(query, corpus, k)
	if err != nil {
		return nil, err
	}
	matches := make([]ANNMatch, len(top))
	for i, t := range top {
		matches[i] = ANNMatch{ID: ids[t.Index], Similarity: t.Similarity}
	}
	return matches, nil
}

// Count reports how many vectors are persisted.
func (a *ANNStore) Count() (int, error) {
	var n int
	if err := a.db.QueryRow(`SELECT COUNT(*) FROM ann_vectors`).Scan(&n); err != nil {
		return 0, todozierr.Storage(err, "count ANN vectors")
	}
	return n, nil
}

// ShouldAccelerate reports whether the index has grown past the
// configured threshold for switching from linear in-memory scan to the
// ANN store.
func (s *Service) ShouldAccelerate() bool {
	return s.cfg.PersistentANN && s.index.Len() >= s.cfg.ANNThreshold
}

