//go:build windows

package common

func mockSys(_, _ uint32) any {
	return nil
}
