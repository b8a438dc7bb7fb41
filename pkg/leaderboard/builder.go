package leaderboard

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// ScoreDecimals is the precision used when formatting ranked scores.
const ScoreDecimals = 8

// Rank assigns competition ranks ("1224" ranking) to the supplied scores.
// Scores are sorted descending; equal scores share the rank of the first
// occurrence and the next distinct score skips ahead by the tie count.
func Rank(scores []float64) RecordList {
	sorted := append([]float64(nil), scores...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i] > sorted[j]
	})

	out := make(RecordList, 0, len(sorted))
	rank := 0
	for i, score := range sorted {
		if i == 0 || score != sorted[i-1] {
			rank = i + 1
		}
		out = append(out, Record{
			Rank:  NewString(strconv.Itoa(rank)),
			Score: NewString(strconv.FormatFloat(score, 'f', ScoreDecimals, 64)),
		})
	}
	return out
}

// ReadCSV reads a rank,score CSV with a header row. Rows with a blank rank or
// score are skipped and the remaining rows are ordered by integer rank.
func ReadCSV(r io.Reader) (RecordList, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return RecordList{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leaderboard: read csv header: %w", err)
	}

	rankIdx, scoreIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case FieldRank:
			rankIdx = i
		case FieldScore:
			scoreIdx = i
		}
	}
	if rankIdx < 0 || scoreIdx < 0 {
		return nil, fmt.Errorf("leaderboard: csv header must contain %q and %q", FieldRank, FieldScore)
	}

	type row struct {
		rank   int
		record Record
	}
	var rows []row
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leaderboard: read csv: %w", err)
		}
		rankText := column(fields, rankIdx)
		scoreText := column(fields, scoreIdx)
		if rankText == "" || scoreText == "" {
			continue
		}
		rank, err := strconv.Atoi(rankText)
		if err != nil {
			line, _ := reader.FieldPos(rankIdx)
			return nil, fmt.Errorf("leaderboard: invalid rank %q on line %d", rankText, line)
		}
		rows = append(rows, row{
			rank:   rank,
			record: Record{Rank: NewString(rankText), Score: NewString(scoreText)},
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].rank < rows[j].rank
	})

	out := make(RecordList, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record)
	}
	return out, nil
}

func column(fields []string, idx int) string {
	if idx >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[idx])
}

// WriteCSV writes the list as a rank,score CSV with a header row.
func WriteCSV(w io.Writer, list RecordList) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("leaderboard: write csv header: %w", err)
	}
	for _, record := range list {
		if err := writer.Write(record.Cells()); err != nil {
			return fmt.Errorf("leaderboard: write csv: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Encode writes the list as an indented JSON array.
func Encode(w io.Writer, list RecordList) error {
	if list == nil {
		list = RecordList{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(list); err != nil {
		return fmt.Errorf("leaderboard: encode json: %w", err)
	}
	return nil
}

// ParseScores reads one score per line, ignoring blank lines and lines
// starting with '#'.
func ParseScores(r io.Reader) ([]float64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: read scores: %w", err)
	}
	var scores []float64
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		score, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("leaderboard: invalid score %q on line %d", line, i+1)
		}
		scores = append(scores, score)
	}
	return scores, nil
}
