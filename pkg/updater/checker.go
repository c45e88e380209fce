package updater

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kpauljoseph/pdfbench/pkg/logger"
	"github.com/kpauljoseph/pdfbench/pkg/version"
)

const (
	githubVersionURL = "https://api.github.com/repos/kpauljoseph/pdfbench/releases/latest"
	userAgent        = "PDFBench-Updater"
)

type Checker struct {
	client      *http.Client
	logger      *logger.Logger
	lastChecked time.Time
}

func NewChecker(logger *logger.Logger) *Checker {
	return &Checker{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (c *Checker) CheckForUpdates() (*UpdateInfo, error) {
	// Rate limit checks
	if time.Since(c.lastChecked) < time.Hour {
		return nil, nil
	}
	c.lastChecked = time.Now()

	c.logger.Debug("Checking for updates...")

	req, err := http.NewRequest(http.MethodGet, githubVersionURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach release endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release endpoint returned %s", resp.Status)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode release info: %w", err)
	}

	if release.Draft || release.Prerelease {
		return nil, nil
	}

	current := version.Version
	latest := strings.TrimPrefix(release.TagName, "v")

	info := &UpdateInfo{
		CurrentVersion: current,
		LatestVersion:  latest,
		ReleaseNotes:   release.Body,
		DownloadURL:    release.HTMLURL,
		IsAvailable:    isNewer(latest, current),
	}

	c.logger.Debug("Latest release: %s (current %s, update available: %v)", latest, current, info.IsAvailable)
	return info, nil
}

// isNewer reports whether a is a higher semantic version than b.
// Non-numeric versions (dev builds, placeholders) never trigger an update.
func isNewer(a, b string) bool {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		an, err1 := strconv.Atoi(as[i])
		bn, err2 := strconv.Atoi(bs[i])
		if err1 != nil || err2 != nil {
			return false
		}
		if an != bn {
			return an > bn
		}
	}
	return len(as) > len(bs)
}
