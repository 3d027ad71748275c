package version

import (
	"runtime"
	rdebug "runtime/debug"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GitCommit     string
	GitBranch     string
	GitSummary    string
	BuildDate     string
	AppVersion    string
	MQTTVersion   = depVersion("paho.mqtt.golang")
	OAuth2Version = depVersion("golang.org/x/oauth2")
	GoVersion     = runtime.Version()
)

type Version struct {
	GitCommit     string `json:"git_commit" yaml:"git_commit"`
	GitBranch     string `json:"git_branch" yaml:"git_branch"`
	GitSummary    string `json:"git_summary" yaml:"git_summary"`
	BuildDate     string `json:"build_date" yaml:"build_date"`
	AppVersion    string `json:"app_version" yaml:"app_version"`
	GoVersion     string `json:"go_version" yaml:"go_version"`
	MQTTVersion   string `json:"mqtt_version" yaml:"mqtt_version"`
	OAuth2Version string `json:"oauth2_version" yaml:"oauth2_version"`
}

func Current() Version {
	return Version{
		GitBranch:     GitBranch,
		GitCommit:     GitCommit,
		GitSummary:    GitSummary,
		BuildDate:     BuildDate,
		AppVersion:    AppVersion,
		GoVersion:     GoVersion,
		MQTTVersion:   MQTTVersion,
		OAuth2Version: OAuth2Version,
	}
}

func ExportBuildInfoMetric() {
	buildInfo := promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pfee_build_info",
			Help: "A metric with a constant '1' value, labeled by branch, commit, summary, builddate, version, Go version from which pfee was built.",
		},
		[]string{"branch", "commit", "summary", "builddate", "version", "goversion"},
	)

	buildInfo.WithLabelValues(GitBranch, GitCommit, GitSummary, BuildDate, AppVersion, GoVersion).Set(1)
}

func depVersion(path string) string {
	buildInfo, ok := rdebug.ReadBuildInfo()
	if !ok {
		return ""
	}

	for _, d := range buildInfo.Deps {
		if strings.Contains(d.Path, path) {
			return d.Version
		}
	}

	return ""
}
