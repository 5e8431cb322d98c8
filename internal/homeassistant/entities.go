package homeassistant

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadEntityList reads the entity IDs exposed to the model, one per line.
// Blank lines, surrounding whitespace and # comment lines are ignored.
//
// The list also names the virtual entities (switch.debug and friends) so
// the model sees them alongside real devices.
func ReadEntityList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening entity list: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var entities []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			entities = append(entities, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading entity list: %w", err)
	}

	return entities, nil
}
