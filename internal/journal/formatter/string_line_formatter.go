package formatter

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/ltnguyen02/tiny-range-index-go/internal/types"
)

// StringLineFormatter encodes journal records as compact comma-separated
// lines. Cheaper to write than JSON, at the cost of being positional.
type StringLineFormatter struct{}

var _ types.LogFormatter = (*StringLineFormatter)(nil)

func NewStringLineFormatter() *StringLineFormatter {
	return &StringLineFormatter{}
}

func (f *StringLineFormatter) Encode(items []types.JournalEntry) ([]byte, error) {
	var sb strings.Builder
	for _, item := range items {
		switch v := item.(type) {
		case *types.ApplyLogItem:
			sb.WriteString(fmt.Sprintf("%d,%d,%d,%d,%d,%d,%d,%t\n",
				v.GetType(), v.Step, v.Pos, v.Value, v.Best, v.Total, v.Error, v.Success))
		case *types.SnapshotLogItem:
			sb.WriteString(fmt.Sprintf("%d,%s\n", v.GetType(), v.Path))
		case *types.RotateLogItem:
			sb.WriteString(fmt.Sprintf("%d,%s,%s\n", v.GetType(), v.OldPath, v.NewPath))
		}
	}
	return []byte(sb.String()), nil
}

func (f *StringLineFormatter) Decode(data []byte) ([]types.JournalEntry, error) {
	var items []types.JournalEntry
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		parts := strings.Split(line, ",")

		typeVal, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid type in journal line: %s", parts[0])
		}

		switch types.LogType(typeVal) {
		case types.LogTypeApply:
			if len(parts) != 8 {
				return nil, fmt.Errorf("invalid journal line for apply: %s", line)
			}
			step, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid step in journal line: %s", parts[1])
			}
			pos, err := strconv.Atoi(parts[2])
			if err != nil {
				return nil, fmt.Errorf("invalid pos in journal line: %s", parts[2])
			}
			value, err := strconv.ParseInt(parts[3], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid value in journal line: %s", parts[3])
			}
			best, err := strconv.ParseInt(parts[4], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid best in journal line: %s", parts[4])
			}
			total, err := strconv.ParseUint(parts[5], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid total in journal line: %s", parts[5])
			}
			errCode, err := strconv.Atoi(parts[6])
			if err != nil {
				return nil, fmt.Errorf("invalid error code in journal line: %s", parts[6])
			}
			success, err := strconv.ParseBool(parts[7])
			if err != nil {
				return nil, fmt.Errorf("invalid success flag in journal line: %s", parts[7])
			}
			items = append(items, &types.ApplyLogItem{
				JournalEntryBase: types.JournalEntryBase{
					Type:  types.LogTypeApply,
					Error: types.LogError(errCode),
				},
				Step:    step,
				Pos:     pos,
				Value:   value,
				Best:    best,
				Total:   total,
				Success: success,
			})
		case types.LogTypeSnapshot:
			if len(parts) != 2 {
				return nil, fmt.Errorf("invalid journal line for snapshot: %s", line)
			}
			items = append(items, &types.SnapshotLogItem{
				JournalEntryBase: types.JournalEntryBase{Type: types.LogTypeSnapshot},
				Path:             parts[1],
			})
		case types.LogTypeRotate:
			if len(parts) != 3 {
				return nil, fmt.Errorf("invalid journal line for rotate: %s", line)
			}
			items = append(items, &types.RotateLogItem{
				JournalEntryBase: types.JournalEntryBase{Type: types.LogTypeRotate},
				OldPath:          parts[1],
				NewPath:          parts[2],
			})
		default:
			return nil, fmt.Errorf("unknown log type in journal line: %s", line)
		}
	}
	return items, nil
}
