package bench

import (
	"bufio"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// ListExtension marks an argument as a list file: a text file naming one
// input mesh per line.
const ListExtension = ".txt"

// ResolveInputs expands the argument list into mesh filenames. Arguments
// with the list extension are read line by line, blank lines dropped;
// everything else passes through untouched. A list file that cannot be
// opened is logged and skipped, it never aborts the batch.
func ResolveInputs(args []string, logger *log.Logger) []string {
	var files []string
	for _, arg := range args {
		if !strings.HasSuffix(arg, ListExtension) {
			files = append(files, arg)
			continue
		}
		f, err := os.Open(arg)
		if err != nil {
			logger.Errorf("failed to open %s: %v", arg, err)
			continue
		}
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			if line := sc.Text(); line != "" {
				files = append(files, line)
			}
		}
		if err := sc.Err(); err != nil {
			logger.Errorf("failed to read %s: %v", arg, err)
		}
		f.Close()
	}
	return files
}
