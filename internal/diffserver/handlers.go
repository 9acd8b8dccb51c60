package diffserver

import (
	"encoding/binary"
	"encoding/json"
	"net/http"
	"os"

	"github.com/rybkr/xdiff/internal/xdiff"
)

// statKey builds the cache key's identity portion from a file's path,
// size, and modification time, so repeated requests against an
// unchanged file skip re-reading and re-hashing its content entirely.
func statKey(path string) ([]byte, os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	buf := make([]byte, 0, len(path)+16)
	buf = append(buf, path...)
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(info.Size()))
	buf = append(buf, tmp[:]...)
	binary.LittleEndian.PutUint64(tmp[:], uint64(info.ModTime().UnixNano()))
	buf = append(buf, tmp[:]...)
	return buf, info, nil
}

// handleDiff recomputes a two-way diff over the watched LHS/RHS files
// and returns the change script as JSON.
func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	if s.mode != ModeDiff {
		http.Error(w, "server is running in merge mode", http.StatusConflict)
		return
	}
	msg := s.computeDiff()
	writeJSON(w, msg)
}

// handleMerge recomputes the three-way merge over the watched
// Base/Side1/Side2 files and returns the assembled buffer as JSON.
func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	if s.mode != ModeMerge {
		http.Error(w, "server is running in diff mode", http.StatusConflict)
		return
	}
	msg := s.computeMerge()
	writeJSON(w, msg)
}

func writeJSON(w http.ResponseWriter, msg UpdateMessage) {
	w.Header().Set("Content-Type", "application/json")
	if msg.Error != "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	_ = json.NewEncoder(w).Encode(msg)
}

func (s *Server) computeDiff() UpdateMessage {
	keyA, _, errA := statKey(s.target.LHS)
	keyB, _, errB := statKey(s.target.RHS)
	if errA != nil {
		return UpdateMessage{Type: "diff", Error: errA.Error()}
	}
	if errB != nil {
		return UpdateMessage{Type: "diff", Error: errB.Error()}
	}

	key := HashKey(keyA, keyB)
	if cached, ok := s.diffCache.Get(key); ok {
		return cached
	}

	a, err := os.ReadFile(s.target.LHS)
	if err != nil {
		return UpdateMessage{Type: "diff", Error: err.Error()}
	}
	b, err := os.ReadFile(s.target.RHS)
	if err != nil {
		return UpdateMessage{Type: "diff", Error: err.Error()}
	}

	p := xdiff.NewPair(a, b, s.flags)
	script := xdiff.Diff(p, s.anchors)

	views := make([]changeView, 0, 8)
	for ch := script.Head; ch != nil; ch = ch.Next {
		views = append(views, changeView{I1: ch.I1, I2: ch.I2, Chg1: ch.Chg1, Chg2: ch.Chg2, Ignore: ch.Ignore})
	}

	msg := UpdateMessage{Type: "diff", Changes: views}
	s.diffCache.Put(key, msg)
	return msg
}

func (s *Server) computeMerge() UpdateMessage {
	keyBase, _, errBase := statKey(s.target.Base)
	key1, _, err1 := statKey(s.target.Side1)
	key2, _, err2 := statKey(s.target.Side2)
	for _, err := range []error{errBase, err1, err2} {
		if err != nil {
			return UpdateMessage{Type: "merge", Error: err.Error()}
		}
	}

	key := HashKey(keyBase, key1, key2)
	if cached, ok := s.mergeCache.Get(key); ok {
		return cached
	}

	base, err := os.ReadFile(s.target.Base)
	if err != nil {
		return UpdateMessage{Type: "merge", Error: err.Error()}
	}
	side1, err := os.ReadFile(s.target.Side1)
	if err != nil {
		return UpdateMessage{Type: "merge", Error: err.Error()}
	}
	side2, err := os.ReadFile(s.target.Side2)
	if err != nil {
		return UpdateMessage{Type: "merge", Error: err.Error()}
	}

	t := xdiff.NewTriple(base, side1, side2, s.flags)
	result := xdiff.Merge(t, s.mergeConfig)

	msg := UpdateMessage{
		Type:  "merge",
		Merge: &mergeView{Buffer: string(result.Buffer), ConflictCount: result.ConflictCount},
	}
	s.mergeCache.Put(key, msg)
	return msg
}

func (s *Server) recomputeAndBroadcast() {
	var msg UpdateMessage
	if s.mode == ModeMerge {
		msg = s.computeMerge()
	} else {
		msg = s.computeDiff()
	}

	s.lastMu.Lock()
	s.last = &msg
	s.lastMu.Unlock()

	s.broadcast(msg)
}

func (s *Server) lastMessage() *UpdateMessage {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	return s.last
}
