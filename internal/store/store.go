// Package store keeps a local mirror of account state: the dialogs the bot
// has seen and a bounded message log per dialog.
//
// Layout under the store directory:
//
//	dialogs.json          index of known dialogs
//	messages/<id>.jsonl   one JSON message object per line, oldest first
//
// The Bot API has no call to list dialogs or fetch history, so listing
// operations are served from this mirror, which the update pump keeps fresh.
package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Kind classifies a dialog. Values match the Bot API chat types.
type Kind string

const (
	KindPrivate    Kind = "private"
	KindGroup      Kind = "group"
	KindSupergroup Kind = "supergroup"
	KindChannel    Kind = "channel"
)

// Dialog is one entry in the dialog index.
type Dialog struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	// Pinned records that the chat has a pinned message we know about.
	Pinned   bool `json:"pinned,omitempty"`
	Archived bool `json:"archived,omitempty"`
	// LastReadID is the highest message ID already consumed by an unread
	// listing. Messages at or below it no longer count as unread.
	LastReadID int       `json:"last_read_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Message is one entry in a dialog's message log.
type Message struct {
	ID        int            `json:"id"`
	DialogID  int64          `json:"dialog_id"`
	SenderID  int64          `json:"sender_id,omitempty"`
	Sender    string         `json:"sender,omitempty"`
	Text      string         `json:"text,omitempty"`
	Date      time.Time      `json:"date"`
	ReplyTo   int            `json:"reply_to,omitempty"`
	Outgoing  bool           `json:"outgoing,omitempty"`
	Mentioned bool           `json:"mentioned,omitempty"`
	Deleted   bool           `json:"deleted,omitempty"`
	MediaKind string         `json:"media_kind,omitempty"`
	MediaID   string         `json:"media_id,omitempty"` // Bot API file_id
	Reactions map[string]int `json:"reactions,omitempty"`
}

// Filter selects dialogs for listing.
type Filter struct {
	Archived     bool
	IgnorePinned bool
}

// Store is the on-disk mirror. All methods are safe for concurrent use.
type Store struct {
	dir string

	mu       sync.Mutex
	dialogs  map[int64]*Dialog
	messages map[int64][]Message // ordered by message ID, oldest first

	dirtyIndex bool
	dirtyLogs  map[int64]bool // logs needing a full rewrite on Flush
}

// Open loads the mirror rooted at dir, creating the layout if necessary.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, "messages"), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	s := &Store{
		dir:       dir,
		dialogs:   map[int64]*Dialog{},
		messages:  map[int64][]Message{},
		dirtyLogs: map[int64]bool{},
	}
	if err := s.loadIndex(); err != nil {
		return nil, err
	}
	s.loadLogs()
	return s, nil
}

// ---------------------------------------------------------------------------
// Writes

// UpsertDialog merges d into the index. Zero-valued cursor fields on d keep
// their stored values.
func (s *Store) UpsertDialog(d Dialog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.dialogs[d.ID]
	if !ok {
		if d.UpdatedAt.IsZero() {
			d.UpdatedAt = time.Now().UTC()
		}
		cp := d
		s.dialogs[d.ID] = &cp
		s.dirtyIndex = true
		return
	}

	// Pinned and Archived are managed through SetPinned and manual state
	// edits; merges never clear them.
	if d.Name != "" {
		cur.Name = d.Name
	}
	if d.Kind != "" {
		cur.Kind = d.Kind
	}
	if d.LastReadID > cur.LastReadID {
		cur.LastReadID = d.LastReadID
	}
	if d.UpdatedAt.After(cur.UpdatedAt) {
		cur.UpdatedAt = d.UpdatedAt
	}
	s.dirtyIndex = true
}

// Append records msg in its dialog's log and bumps the dialog's activity
// time. The dialog entry is created on demand. A message ID already present
// is merged rather than duplicated: a locally mirrored send and the matching
// channel_post update describe the same message.
func (s *Store) Append(msg Message) error {
	if msg.Date.IsZero() {
		msg.Date = time.Now().UTC()
	}

	s.mu.Lock()
	d, ok := s.dialogs[msg.DialogID]
	if !ok {
		d = &Dialog{ID: msg.DialogID}
		s.dialogs[msg.DialogID] = d
		s.dirtyIndex = true
	}
	if msg.Date.After(d.UpdatedAt) {
		d.UpdatedAt = msg.Date
		s.dirtyIndex = true
	}

	log := s.messages[msg.DialogID]
	i := sort.Search(len(log), func(i int) bool { return log[i].ID >= msg.ID })
	switch {
	case i < len(log) && log[i].ID == msg.ID:
		if msg.Text != "" {
			log[i].Text = msg.Text
		}
		if msg.Sender != "" {
			log[i].Sender = msg.Sender
			log[i].SenderID = msg.SenderID
		}
		if msg.MediaID != "" {
			log[i].MediaKind = msg.MediaKind
			log[i].MediaID = msg.MediaID
		}
		log[i].Outgoing = log[i].Outgoing || msg.Outgoing
		s.dirtyLogs[msg.DialogID] = true
		s.mu.Unlock()
		return nil

	case i == len(log):
		s.messages[msg.DialogID] = append(log, msg)
		rewrite := s.dirtyLogs[msg.DialogID]
		s.mu.Unlock()
		if rewrite {
			// The whole log gets rewritten on Flush anyway.
			return nil
		}
		return s.appendLine(msg)

	default:
		// Out-of-order arrival; splice in and rewrite on Flush.
		log = append(log, Message{})
		copy(log[i+1:], log[i:])
		log[i] = msg
		s.messages[msg.DialogID] = log
		s.dirtyLogs[msg.DialogID] = true
		s.mu.Unlock()
		return nil
	}
}

// MarkRead advances the dialog's read cursor to upTo.
func (s *Store) MarkRead(dialogID int64, upTo int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.dialogs[dialogID]
	if !ok || upTo <= d.LastReadID {
		return
	}
	d.LastReadID = upTo
	s.dirtyIndex = true
}

// ApplyEdit replaces the text of a stored message. Reports whether the
// message was found.
func (s *Store) ApplyEdit(dialogID int64, messageID int, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.find(dialogID, messageID)
	if msg == nil {
		return false
	}
	msg.Text = text
	s.dirtyLogs[dialogID] = true
	return true
}

// MarkDeleted flags a stored message as deleted. Reports whether the message
// was found.
func (s *Store) MarkDeleted(dialogID int64, messageID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.find(dialogID, messageID)
	if msg == nil {
		return false
	}
	msg.Deleted = true
	s.dirtyLogs[dialogID] = true
	return true
}

// SetReaction adjusts the count for emoji on a stored message. Reports
// whether the message was found.
func (s *Store) SetReaction(dialogID int64, messageID int, emoji string, add bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.find(dialogID, messageID)
	if msg == nil {
		return false
	}
	if msg.Reactions == nil {
		msg.Reactions = map[string]int{}
	}
	if add {
		msg.Reactions[emoji]++
	} else {
		if msg.Reactions[emoji] <= 1 {
			delete(msg.Reactions, emoji)
		} else {
			msg.Reactions[emoji]--
		}
	}
	s.dirtyLogs[dialogID] = true
	return true
}

// SetPinned records whether the chat currently has a pinned message.
func (s *Store) SetPinned(dialogID int64, pinned bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.dialogs[dialogID]
	if !ok {
		return
	}
	if d.Pinned != pinned {
		d.Pinned = pinned
		s.dirtyIndex = true
	}
}

// Forget drops a dialog and its log entirely.
func (s *Store) Forget(dialogID int64) {
	s.mu.Lock()
	delete(s.dialogs, dialogID)
	delete(s.messages, dialogID)
	delete(s.dirtyLogs, dialogID)
	s.dirtyIndex = true
	s.mu.Unlock()

	_ = os.Remove(s.logPath(dialogID))
}

// ---------------------------------------------------------------------------
// Reads

// Dialogs returns the dialogs matching f, pinned first, then by most recent
// activity.
func (s *Store) Dialogs(f Filter) []Dialog {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Dialog
	for _, d := range s.dialogs {
		if d.Archived != f.Archived {
			continue
		}
		if f.IgnorePinned && d.Pinned {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pinned != out[j].Pinned {
			return out[i].Pinned
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Dialog returns the index entry for id.
func (s *Store) Dialog(id int64) (Dialog, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.dialogs[id]
	if !ok {
		return Dialog{}, false
	}
	return *d, true
}

// Messages returns a copy of the dialog's log, oldest first, excluding
// deleted entries.
func (s *Store) Messages(dialogID int64) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Message
	for _, m := range s.messages[dialogID] {
		if m.Deleted {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Message returns a single stored message.
func (s *Store) Message(dialogID int64, messageID int) (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.find(dialogID, messageID)
	if msg == nil {
		return Message{}, false
	}
	return *msg, true
}

// UnreadCount reports how many incoming messages sit above the dialog's read
// cursor.
func (s *Store) UnreadCount(dialogID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countAboveCursor(dialogID, func(m *Message) bool { return true })
}

// MentionCount reports how many unread incoming messages mention the bot.
func (s *Store) MentionCount(dialogID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countAboveCursor(dialogID, func(m *Message) bool { return m.Mentioned })
}

// countAboveCursor counts non-deleted incoming messages past the read cursor
// that satisfy keep. Callers hold s.mu.
func (s *Store) countAboveCursor(dialogID int64, keep func(*Message) bool) int {
	d, ok := s.dialogs[dialogID]
	if !ok {
		return 0
	}
	n := 0
	for i := range s.messages[dialogID] {
		m := &s.messages[dialogID][i]
		if m.ID > d.LastReadID && !m.Outgoing && !m.Deleted && keep(m) {
			n++
		}
	}
	return n
}

// find returns a pointer into the log for in-place mutation. Callers hold
// s.mu.
func (s *Store) find(dialogID int64, messageID int) *Message {
	log := s.messages[dialogID]
	for i := range log {
		if log[i].ID == messageID && !log[i].Deleted {
			return &log[i]
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Persistence

// Flush writes the index and any logs needing a rewrite.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.dirtyLogs {
		if err := s.writeLog(id); err != nil {
			return err
		}
		delete(s.dirtyLogs, id)
	}
	if s.dirtyIndex {
		if err := s.writeIndex(); err != nil {
			return err
		}
		s.dirtyIndex = false
	}
	return nil
}

// Close flushes pending state.
func (s *Store) Close() error {
	return s.Flush()
}

// Dir returns the store root.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) indexPath() string {
	return filepath.Join(s.dir, "dialogs.json")
}

func (s *Store) logPath(dialogID int64) string {
	return filepath.Join(s.dir, "messages", strconv.FormatInt(dialogID, 10)+".jsonl")
}

type dialogIndex struct {
	Dialogs []Dialog `json:"dialogs"`
}

// writeIndex persists the dialog index. Callers hold s.mu.
func (s *Store) writeIndex() error {
	idx := dialogIndex{Dialogs: make([]Dialog, 0, len(s.dialogs))}
	for _, d := range s.dialogs {
		idx.Dialogs = append(idx.Dialogs, *d)
	}
	sort.Slice(idx.Dialogs, func(i, j int) bool { return idx.Dialogs[i].ID < idx.Dialogs[j].ID })

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(idx); err != nil {
		return fmt.Errorf("encode dialog index: %w", err)
	}
	if err := os.WriteFile(s.indexPath(), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write dialog index: %w", err)
	}
	return nil
}

// writeLog rewrites one dialog's message log. Callers hold s.mu.
func (s *Store) writeLog(dialogID int64) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, m := range s.messages[dialogID] {
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("encode message: %w", err)
		}
	}
	path := s.logPath(dialogID)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write message log %s: %w", path, err)
	}
	return nil
}

// appendLine adds one message to the end of a dialog's log file.
func (s *Store) appendLine(msg Message) error {
	f, err := os.OpenFile(s.logPath(msg.DialogID), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open message log: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(msg); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// loadIndex reads dialogs.json if present.
func (s *Store) loadIndex() error {
	data, err := os.ReadFile(s.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read dialog index: %w", err)
	}

	var idx dialogIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		slog.Warn("store: dialog index malformed, starting empty", "err", err)
		return nil
	}
	for i := range idx.Dialogs {
		d := idx.Dialogs[i]
		s.dialogs[d.ID] = &d
	}
	return nil
}

// loadLogs reads every message log under messages/.
func (s *Store) loadLogs() {
	entries, _ := filepath.Glob(filepath.Join(s.dir, "messages", "*.jsonl"))
	for _, path := range entries {
		base := strings.TrimSuffix(filepath.Base(path), ".jsonl")
		dialogID, err := strconv.ParseInt(base, 10, 64)
		if err != nil {
			slog.Warn("store: skipping log with non-numeric name", "path", path)
			continue
		}
		s.loadLog(dialogID, path)
	}
}

func (s *Store) loadLog(dialogID int64, path string) {
	f, err := os.Open(path)
	if err != nil {
		slog.Warn("store: open message log", "path", path, "err", err)
		return
	}
	defer f.Close()

	var log []Message
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1<<20), 1<<20) // 1 MB per line
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var m Message
		if err := json.Unmarshal(line, &m); err != nil {
			slog.Warn("store: skipping malformed message line", "path", path, "err", err)
			continue
		}
		m.DialogID = dialogID
		log = append(log, m)
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("store: error reading message log", "path", path, "err", err)
	}

	sort.Slice(log, func(i, j int) bool { return log[i].ID < log[j].ID })
	s.messages[dialogID] = log

	if _, ok := s.dialogs[dialogID]; !ok {
		d := &Dialog{ID: dialogID}
		if n := len(log); n > 0 {
			d.UpdatedAt = log[n-1].Date
		}
		s.dialogs[dialogID] = d
		s.dirtyIndex = true
	}
}
