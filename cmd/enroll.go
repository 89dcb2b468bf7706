package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <dir>",
	Short: "Register every student photo in a directory",
	Long: `Register students in bulk from a directory of photos named
<student_id>_<name>.<ext>, for example STU001_Alice_Smith.jpg.
Underscores in the name part become spaces. Files are processed one at a
time; failures are reported at the end and do not stop the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)
}

var enrollExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"}

// enrollEntry is one photo to register
type enrollEntry struct {
	Path      string
	StudentID string
	Name      string
}

// parseEnrollFilename splits "<student_id>_<name>.<ext>".
func parseEnrollFilename(filename string) (studentID, name string, ok bool) {
	ext := filepath.Ext(filename)
	if !slices.Contains(enrollExtensions, strings.ToLower(ext)) {
		return "", "", false
	}
	studentID, rest, found := strings.Cut(strings.TrimSuffix(filename, ext), "_")
	if !found || studentID == "" {
		return "", "", false
	}
	name = strings.Join(strings.Fields(strings.ReplaceAll(rest, "_", " ")), " ")
	if name == "" {
		return "", "", false
	}
	return studentID, name, true
}

// scanEnrollDir lists registrable photos in dir sorted by file name.
func scanEnrollDir(dir string) ([]enrollEntry, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var (
		photos  []enrollEntry
		skipped []string
	)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		studentID, name, ok := parseEnrollFilename(e.Name())
		if !ok {
			skipped = append(skipped, e.Name())
			continue
		}
		photos = append(photos, enrollEntry{
			Path:      filepath.Join(dir, e.Name()),
			StudentID: studentID,
			Name:      name,
		})
	}
	return photos, skipped, nil
}

func runEnroll(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	photos, skipped, err := scanEnrollDir(args[0])
	if err != nil {
		return err
	}
	for _, name := range skipped {
		fmt.Printf("Skipping %s (expected <student_id>_<name>.<ext>)\n", name)
	}
	if len(photos) == 0 {
		fmt.Println("No student photos found")
		return nil
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Printf("Registering %d students\n\n", len(photos))

	bar := progressbar.NewOptions(len(photos),
		progressbar.OptionSetDescription("Registering"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("students"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	var (
		registered int
		duplicates int
		failures   []string
	)
	for _, p := range photos {
		err := enrollOne(cmd, a, p)
		switch {
		case err == nil:
			registered++
		case errors.Is(err, attendance.ErrDuplicateIdentity):
			duplicates++
		default:
			failures = append(failures, fmt.Sprintf("%s: %v", filepath.Base(p.Path), err))
		}
		bar.Add(1)
	}
	fmt.Println()

	fmt.Printf("\nCompleted: %d registered, %d already registered, %d failed\n", registered, duplicates, len(failures))
	for _, f := range failures {
		fmt.Printf("  %s\n", f)
	}
	if len(failures) > 0 {
		return fmt.Errorf("%d photos could not be registered", len(failures))
	}
	return nil
}

func enrollOne(cmd *cobra.Command, a *app, p enrollEntry) error {
	image, err := readImageBase64(p.Path)
	if err != nil {
		return err
	}
	_, err = a.service.Registrar.Register(cmd.Context(), attendance.RegisterRequest{
		Name:      p.Name,
		StudentID: p.StudentID,
		Image:     image,
	})
	return err
}
