package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

// CurrentVersion is stamped at release time.
const CurrentVersion = "0.3.1"

// githubRepo is the release source for self-updates.
const githubRepo = "Fepozopo/gridshot"

// cmdUpdate checks GitHub releases for a newer version and, unless -check
// is given, replaces the running binary in place.
func cmdUpdate(args []string) int {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	checkOnly := fs.Bool("check", false, "only check for a newer release")
	if err := fs.Parse(args); err != nil {
		return ExitError
	}

	current, err := semver.ParseTolerant(CurrentVersion)
	if err != nil {
		return fail(fmt.Errorf("invalid built-in version %q: %w", CurrentVersion, err))
	}

	latest, found, err := selfupdate.DetectLatest(githubRepo)
	if err != nil {
		return fail(fmt.Errorf("release lookup failed: %w", err))
	}
	if !found || latest.Version.LTE(current) {
		fmt.Printf("gridshot %s is up to date\n", CurrentVersion)
		return ExitOK
	}

	fmt.Printf("new release available: %s (current %s)\n", latest.Version, CurrentVersion)
	if *checkOnly {
		return ExitOK
	}

	exe, err := os.Executable()
	if err != nil {
		return fail(fmt.Errorf("could not locate running binary: %w", err))
	}
	debugf("updating %s from %s", exe, latest.AssetURL)
	if err := selfupdate.UpdateTo(latest.AssetURL, exe); err != nil {
		return fail(fmt.Errorf("update failed: %w", err))
	}
	fmt.Printf("updated to %s\n", latest.Version)
	return ExitOK
}
