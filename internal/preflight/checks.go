package preflight

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"motk/internal/entity"
	"motk/internal/sheet"
)

// minFreeBytes is the low-water mark for the storage filesystem (1 GiB).
const minFreeBytes = 1 << 30

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path still has headroom for
// entity folders and archives.
func CheckFreeSpace(name, path string) Result {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	detail := fmt.Sprintf("%.1f GiB free", float64(free)/float64(1<<30))
	if free < minFreeBytes {
		return Result{Name: name, Detail: detail + " (below 1 GiB)"}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckBacking verifies the backing workbook is reachable and reports on each
// entity sheet. Missing sheets point the user at the init command.
func CheckBacking(ctx context.Context, client sheet.Client) []Result {
	const name = "Backing store"
	if client == nil {
		return []Result{{Name: name, Detail: "not configured"}}
	}

	info, err := client.GetSpreadsheetInfo(ctx)
	if err != nil {
		return []Result{{Name: name, Detail: fmt.Sprintf("unreachable: %v", err)}}
	}
	results := []Result{{
		Name:   name,
		Passed: true,
		Detail: fmt.Sprintf("%s (%d sheets)", info.Title, info.SheetCount),
	}}

	for _, schema := range entity.Schemas() {
		checkName := "Sheet " + schema.Sheet
		exists, err := client.SheetExists(ctx, schema.Sheet)
		switch {
		case err != nil:
			results = append(results, Result{Name: checkName, Detail: err.Error()})
		case !exists:
			results = append(results, Result{Name: checkName, Detail: "missing (run: motk init)"})
		default:
			results = append(results, Result{Name: checkName, Passed: true, Detail: "present"})
		}
	}
	return results
}
