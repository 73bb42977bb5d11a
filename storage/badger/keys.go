package badger

import (
	"fmt"

	"github.com/poiesic/scrivener/core"
)

// Key prefixes for different data types
const (
	indexSnapshotPrefix  = "vecidx"
	querySetPrefix       = "secq"
	artifactRecordPrefix = "artrec"
)

// makeIndexSnapshotKey generates a key for an index snapshot by content hash.
func makeIndexSnapshotKey(hash core.ContentHash) []byte {
	return []byte(fmt.Sprintf("%s:%s", indexSnapshotPrefix, hash))
}

// makeQuerySetKey generates a key for a section query set. The title is
// hashed so arbitrary titles map to fixed-size keys and identical titles
// always hit the same cache entry.
func makeQuerySetKey(title string) []byte {
	return []byte(fmt.Sprintf("%s:%d", querySetPrefix, core.IDFromContent(title)))
}

// makeArtifactRecordKey generates a key for an artifact record by ID.
func makeArtifactRecordKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", artifactRecordPrefix, id))
}
