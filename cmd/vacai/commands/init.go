package commands

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Neverdecel/VacAI/ai/openai"
	"github.com/Neverdecel/VacAI/ai/tracker"
	"github.com/Neverdecel/VacAI/errors"
	"github.com/Neverdecel/VacAI/logger"
	"github.com/Neverdecel/VacAI/profile"
)

var initResumeFlag string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the database and analyze your resume into a profile",
	Long: `Create and migrate the database, then analyze your resume into the
candidate profile every posting is scored against.

The resume is plain text. The extracted profile is written to the
configured profile path (default ~/.vacai/profile.json) and can be
edited by hand afterwards.

Examples:
  vacai init --resume resume.txt
  vacai init                       # database only, keep existing profile`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initResumeFlag, "resume", "", "Path to resume text file to analyze")
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	_, database, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	pterm.Success.Printf("Database ready at %s\n", cfg.Database.Path)

	if initResumeFlag == "" {
		if _, err := profile.Load(cfg.ProfilePath()); err != nil {
			pterm.Warning.Println("No profile yet: run again with --resume to create one")
		}
		return nil
	}

	resumeText, err := os.ReadFile(initResumeFlag)
	if err != nil {
		return errors.Wrap(err, "read resume")
	}

	temp := float32(cfg.OpenAI.Temperature)
	client := openai.New(openai.Config{
		APIKey:        cfg.OpenAI.APIKey,
		BaseURL:       cfg.OpenAI.BaseURL,
		Model:         cfg.OpenAI.Model,
		Temperature:   &temp,
		Logger:        logger.Logger,
		Tracker:       tracker.New(database),
		OperationType: "resume-analysis",
		EntityType:    "resume",
	})

	spinner, _ := pterm.DefaultSpinner.Start("Analyzing resume...")
	prof, err := profile.NewAnalyzer(client).Analyze(cmd.Context(), string(resumeText))
	if err != nil {
		spinner.Fail("Resume analysis failed")
		return err
	}
	if err := prof.Save(cfg.ProfilePath()); err != nil {
		spinner.Fail("Could not save profile")
		return err
	}
	spinner.Success("Profile created")

	pterm.Printf("Profile:  %s\n", cfg.ProfilePath())
	pterm.Printf("Skills:   %d extracted\n", len(prof.Skills))
	pterm.Printf("Titles:   %d preferred\n", len(prof.PreferredTitles))
	return nil
}
