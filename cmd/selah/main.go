package main

import (
	"fmt"
	"os"

	"github.com/bdobrica/Selah/common/environment"
	"github.com/bdobrica/Selah/common/version"
	"github.com/bdobrica/Selah/internal/selah/app"
	"github.com/bdobrica/Selah/internal/selah/dialog"
	"github.com/bdobrica/Selah/internal/selah/matrix"
)

func main() {
	fmt.Printf("Selah Scripture Bot\n")
	fmt.Printf("Version: %s\n", version.Version)
	fmt.Printf("Commit: %s\n", version.GitCommit)
	fmt.Printf("Build Time: %s\n", version.BuildTime)
	fmt.Println()

	// Load configuration from environment
	config, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Create application
	selah, err := app.New(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize Selah: %v\n", err)
		os.Exit(1)
	}
	defer selah.Stop()

	// Run application
	if err := selah.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running Selah: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration from environment variables
func loadConfig() (*app.Config, error) {
	homeserver, err := environment.RequiredString("MATRIX_HOMESERVER")
	if err != nil {
		return nil, err
	}
	userID, err := environment.RequiredString("MATRIX_USER_ID")
	if err != nil {
		return nil, err
	}
	accessToken, err := environment.RequiredString("MATRIX_ACCESS_TOKEN")
	if err != nil {
		return nil, err
	}
	rooms := environment.StringSliceOr("MATRIX_ROOMS", nil)
	if len(rooms) == 0 {
		return nil, fmt.Errorf("MATRIX_ROOMS is required")
	}

	return &app.Config{
		DatabasePath: environment.StringOr("DATABASE_PATH", "./selah.db"),
		Matrix: matrix.Config{
			Homeserver:  homeserver,
			UserID:      userID,
			AccessToken: accessToken,
			Rooms:       rooms,
		},
		LookupBaseURL: environment.StringOr("SELAH_LOOKUP_BASE_URL", ""),
		LookupTimeout: environment.DurationOr("SELAH_LOOKUP_TIMEOUT", 0),
		DialogTTL:     environment.DurationOr("SELAH_DIALOG_TTL", dialog.DefaultTTL),
		ResponsesPath: environment.StringOr("SELAH_RESPONSES_PATH", ""),
		RandSeed:      environment.Int64Or("SELAH_RAND_SEED", 0),
	}, nil
}

