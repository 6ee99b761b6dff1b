// Package loader reads task definitions from CSV or JSON files and hands
// them to graph.Build. It only parses; all structural validation lives in
// the graph package.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/joshharrison/pertcast/internal/graph"
)

// Load reads task definitions from path, dispatching on the file extension
// (.csv or .json), and builds the validated task graph.
func Load(path string) (*graph.TaskGraph, error) {
	defs, err := LoadDefs(path)
	if err != nil {
		return nil, err
	}
	g, err := graph.Build(defs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// LoadDefs reads raw task definitions from path without building a graph.
func LoadDefs(path string) ([]graph.Def, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(strings.NewReader(string(data)))
	case ".json":
		return ParseJSON(data)
	default:
		return nil, fmt.Errorf("unsupported task file format %q (want .csv or .json)", filepath.Ext(path))
	}
}

// ParseCSV reads header-mapped task rows. Required columns: task_id,
// task_name, predecessor (comma-separated ids, may be empty), optimistic,
// most_likely, pessimistic. Optional PERT_Expected and PERT_StdDev columns
// override the derived values; other columns are ignored.
func ParseCSV(r io.Reader) ([]graph.Def, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty task file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"task_id", "task_name", "optimistic", "most_likely", "pessimistic"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("task file missing column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var defs []graph.Def
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++

		d := graph.Def{
			ID:           field(row, "task_id"),
			Name:         field(row, "task_name"),
			Predecessors: splitIDs(field(row, "predecessor")),
		}
		if d.ID == "" {
			return nil, fmt.Errorf("line %d: empty task_id", line)
		}
		if d.Optimistic, err = parseFloat(field(row, "optimistic")); err != nil {
			return nil, fmt.Errorf("line %d (%s): optimistic: %w", line, d.ID, err)
		}
		if d.MostLikely, err = parseFloat(field(row, "most_likely")); err != nil {
			return nil, fmt.Errorf("line %d (%s): most_likely: %w", line, d.ID, err)
		}
		if d.Pessimistic, err = parseFloat(field(row, "pessimistic")); err != nil {
			return nil, fmt.Errorf("line %d (%s): pessimistic: %w", line, d.ID, err)
		}

		if s := field(row, "pert_expected"); s != "" {
			v, err := parseFloat(s)
			if err != nil {
				return nil, fmt.Errorf("line %d (%s): PERT_Expected: %w", line, d.ID, err)
			}
			d.Expected = &v
		}
		if s := field(row, "pert_stddev"); s != "" {
			v, err := parseFloat(s)
			if err != nil {
				return nil, fmt.Errorf("line %d (%s): PERT_StdDev: %w", line, d.ID, err)
			}
			d.StdDev = &v
		}

		defs = append(defs, d)
	}
	return defs, nil
}

// ParseJSON reads task definitions from a JSON document: either a top-level
// array of task objects or an object with a "tasks" array. Field names
// accept both short (id, name) and CSV-style (task_id, task_name) spellings;
// predecessors may be an array of ids or a comma-separated string.
func ParseJSON(data []byte) ([]graph.Def, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON task file")
	}

	doc := gjson.ParseBytes(data)
	tasks := doc
	if doc.IsObject() {
		tasks = doc.Get("tasks")
	}
	if !tasks.IsArray() {
		return nil, fmt.Errorf("JSON task file must be an array of tasks or an object with a \"tasks\" array")
	}

	var defs []graph.Def
	var parseErr error
	tasks.ForEach(func(_, item gjson.Result) bool {
		d := graph.Def{
			ID:          firstString(item, "id", "task_id"),
			Name:        firstString(item, "name", "task_name"),
			Optimistic:  item.Get("optimistic").Float(),
			MostLikely:  item.Get("most_likely").Float(),
			Pessimistic: item.Get("pessimistic").Float(),
		}
		if d.ID == "" {
			parseErr = fmt.Errorf("task %d: missing id", len(defs))
			return false
		}

		preds := item.Get("predecessors")
		if !preds.Exists() {
			preds = item.Get("predecessor")
		}
		switch {
		case preds.IsArray():
			preds.ForEach(func(_, p gjson.Result) bool {
				if id := strings.TrimSpace(p.String()); id != "" {
					d.Predecessors = append(d.Predecessors, id)
				}
				return true
			})
		case preds.Type == gjson.String:
			d.Predecessors = splitIDs(preds.String())
		}

		if v := item.Get("expected"); v.Exists() {
			f := v.Float()
			d.Expected = &f
		}
		if v := item.Get("stddev"); v.Exists() {
			f := v.Float()
			d.StdDev = &f
		}

		defs = append(defs, d)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return defs, nil
}

func firstString(item gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := item.Get(k); v.Exists() {
			return strings.TrimSpace(v.String())
		}
	}
	return ""
}

func splitIDs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := strings.TrimSpace(p); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}
