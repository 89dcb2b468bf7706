package cmd

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a student from a face photo",
	Long: `Register a student from an image file containing their face.
The first detected face is used when the image contains several.`,
	RunE: runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().String("name", "", "Student name")
	registerCmd.Flags().String("student-id", "", "Unique student ID (e.g. STU001)")
	registerCmd.Flags().String("image", "", "Path to a JPEG, PNG, GIF, BMP or WebP image")
	registerCmd.MarkFlagRequired("image")
}

// readImageBase64 reads an image file and encodes it the way the capture page sends it.
func readImageBase64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	image, err := readImageBase64(mustGetString(cmd, "image"))
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	student, err := a.service.Registrar.Register(cmd.Context(), attendance.RegisterRequest{
		Name:      mustGetString(cmd, "name"),
		StudentID: mustGetString(cmd, "student-id"),
		Image:     image,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Printf("Student '%s' registered successfully.\n", student.Name)
	fmt.Printf("  ID:        %s\n", student.StudentID)
	fmt.Printf("  Embedding: %s\n", student.EncodingPath)
	return nil
}
