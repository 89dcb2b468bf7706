package cmd

import (
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/spf13/cobra"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize",
	Short: "Recognize a face photo and mark attendance",
	Long: `Match the face in an image file against all registered students and
mark attendance for today if it matches. A student is marked at most once per day.`,
	RunE: runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)

	recognizeCmd.Flags().String("image", "", "Path to a JPEG, PNG, GIF, BMP or WebP image")
	recognizeCmd.MarkFlagRequired("image")
}

func runRecognize(cmd *cobra.Command, args []string) error {
	image, err := readImageBase64(mustGetString(cmd, "image"))
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.service.Recognizer.Recognize(cmd.Context(), image)
	if err != nil {
		return fmt.Errorf("recognition failed: %w", err)
	}

	switch res.Outcome {
	case attendance.OutcomeMarked:
		fmt.Printf("Attendance marked for '%s' (%s) at %s %s, distance %.3f\n",
			res.StudentName, res.StudentID, res.Record.Date, res.Record.Time, res.Distance)
	case attendance.OutcomeAlreadyMarked:
		fmt.Printf("Attendance already marked for '%s' today (distance %.3f)\n", res.StudentName, res.Distance)
	case attendance.OutcomeNoMatch:
		fmt.Printf("Face not recognised (distance: %.2f, tolerance: %.2f)\n", res.Distance, a.cfg.Matching.Tolerance)
	case attendance.OutcomeNoGallery:
		fmt.Println("No students registered yet.")
	}
	return nil
}
