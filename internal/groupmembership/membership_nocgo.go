//go:build !cgo && !windows

package groupmembership

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// groupFilePath is a variable so tests can point the parser at a fixture.
var groupFilePath = "/etc/group"

// groupMembers returns the explicit member names of the group with the
// given gid by parsing the group file. Primary-group-only users do not
// appear in this list. An unknown gid yields an empty list, not an error.
func groupMembers(gid uint32) ([]string, error) {
	entry, err := findGroupByGID(gid)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.members == "" {
		return nil, nil
	}

	var members []string
	for _, member := range strings.Split(entry.members, ",") {
		if member = strings.TrimSpace(member); member != "" {
			members = append(members, member)
		}
	}
	return members, nil
}

// groupEntry is one parsed line of the group file.
type groupEntry struct {
	name    string
	gid     uint32
	members string
}

func findGroupByGID(gid uint32) (*groupEntry, error) {
	file, err := os.Open(groupFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", groupFilePath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseGroupLine(line)
		if err != nil {
			continue // Skip malformed lines
		}
		if entry.gid == gid {
			return entry, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", groupFilePath, err)
	}
	return nil, nil // Group not found
}

// parseGroupLine parses one group file line of the form
// groupname:password:gid:member1,member2.
func parseGroupLine(line string) (*groupEntry, error) {
	fields := strings.Split(line, ":")
	if len(fields) < 4 {
		return nil, fmt.Errorf("invalid group line format")
	}

	gid, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid GID: %w", err)
	}

	return &groupEntry{
		name:    fields[0],
		gid:     uint32(gid),
		members: fields[3],
	}, nil
}
