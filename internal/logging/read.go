package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Entry is one parsed line of debug.log.
type Entry struct {
	Time      time.Time
	Level     string
	Message   string
	Component string
	Channel   string
	BoatID    string
	Attrs     map[string]any
}

// Filter selects entries. Zero fields do not filter; set fields are ANDed.
type Filter struct {
	Level     string // minimum level
	Component string
	BoatID    string
	Contains  string
	Since     time.Time
}

var levelRank = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ReadLogs parses {dir}/debug.log and returns its entries in time order.
// Lines that are not valid JSON are skipped.
func ReadLogs(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, LogFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no log file in %s: %w", dir, err)
		}
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return parseEntries(f)
}

func parseEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		e, err := parseEntry(line)
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("error reading log file: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Time.Before(entries[j].Time)
	})
	return entries, nil
}

func parseEntry(line string) (Entry, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, fmt.Errorf("invalid JSON: %w", err)
	}

	take := func(key string) string {
		s, _ := raw[key].(string)
		delete(raw, key)
		return s
	}

	e := Entry{
		Level:     take("level"),
		Message:   take("msg"),
		Component: take("component"),
		Channel:   take("channel"),
		BoatID:    take("boat_id"),
	}
	if ts := take("time"); ts != "" {
		e.Time, _ = time.Parse(time.RFC3339Nano, ts)
	}
	e.Attrs = raw
	return e, nil
}

// FilterLogs returns the entries matching f.
func FilterLogs(entries []Entry, f Filter) []Entry {
	var out []Entry
	for _, e := range entries {
		if f.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func (f Filter) matches(e Entry) bool {
	if f.Level != "" {
		min, ok1 := levelRank[strings.ToUpper(f.Level)]
		got, ok2 := levelRank[e.Level]
		if ok1 && ok2 && got < min {
			return false
		}
	}
	if f.Component != "" && e.Component != f.Component {
		return false
	}
	if f.BoatID != "" && e.BoatID != f.BoatID {
		return false
	}
	if f.Contains != "" && !strings.Contains(e.Message, f.Contains) {
		return false
	}
	if !f.Since.IsZero() && e.Time.Before(f.Since) {
		return false
	}
	return true
}

// WriteText renders entries one per line: time, level, component, message,
// then the remaining attributes in key order.
func WriteText(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s %-5s", e.Time.Format("15:04:05.000"), e.Level)
		if e.Component != "" {
			fmt.Fprintf(&sb, " [%s]", e.Component)
		}
		sb.WriteString(" " + e.Message)
		if e.BoatID != "" {
			fmt.Fprintf(&sb, " boat_id=%s", e.BoatID)
		}
		if e.Channel != "" {
			fmt.Fprintf(&sb, " channel=%s", e.Channel)
		}
		keys := make([]string, 0, len(e.Attrs))
		for k := range e.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, " %s=%v", k, e.Attrs[k])
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}
