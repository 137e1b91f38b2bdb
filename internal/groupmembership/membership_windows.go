//go:build windows

package groupmembership

// groupMembers reports no explicit members on Windows; the directory
// security checker never consults group membership there because POSIX
// ownership is not available, so this exists only to keep the package
// buildable.
func groupMembers(_ uint32) ([]string, error) {
	return nil, nil
}
