package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"gopkg.in/yaml.v2"

	"github.com/bigredeye/temrin/internal/models"
)

// Roster is the YAML import format:
//
//	- studentNo: "101"
//	  fullName:  Ayşe Kaya
//	  gender:    Kadın
//	  scores: {t1: 80, t2: 75, t3: 90, t4: 60, t5: 85}
type Roster = []models.StudentForm

func parseRoster(body []byte) (Roster, error) {
	roster := Roster{}
	if err := yaml.Unmarshal(body, &roster); err != nil {
		return nil, errors.Wrap(err, "Failed to unmarshal roster")
	}
	for i := range roster {
		roster[i] = roster[i].Normalize()
		if roster[i].StudentNo == "" || roster[i].FullName == "" {
			return nil, errors.Errorf("Roster entry %d has no student number or name", i+1)
		}
	}
	return roster, nil
}

func makeImportCommand() *cobra.Command {
	var file string
	var parallel int64
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import students from a YAML roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			return importRoster(cmd.Context(), file, parallel)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Roster file")
	cmd.Flags().Int64Var(&parallel, "parallel", 4, "Concurrent requests")
	check(cmd.MarkFlagRequired("file"))

	return cmd
}

func importRoster(ctx context.Context, file string, parallel int64) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if parallel < 1 {
		return errors.Errorf("Parallelism must be positive, got %d", parallel)
	}

	body, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	roster, err := parseRoster(body)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	sema := semaphore.NewWeighted(parallel)
	imported := atomic.NewInt32(0)
	g := errgroup.Group{}
	for _, form := range roster {
		form := form
		if err := sema.Acquire(ctx, 1); err != nil {
			return err
		}
		g.Go(func() error {
			defer sema.Release(1)
			student, err := client.AddStudent(form)
			if err != nil {
				log.Error("Failed to import student", zap.String("student_no", form.StudentNo), zap.Error(err))
				return err
			}
			imported.Inc()
			log.Debug("Imported student", zap.String("id", student.ID), zap.String("student_no", student.StudentNo))
			return nil
		})
	}

	err = g.Wait()
	log.Info("Import finished", zap.Int32("imported", imported.Load()), zap.Int("total", len(roster)))
	return err
}
