package version

import (
	"fmt"
	"runtime"
)

// Set with -ldflags "-X github.com/jackzampolin/pdfextract/version.GitRelease=..."
var (
	GitRelease    = "dev"
	GitCommit     = "unknown"
	GitCommitDate = "unknown"
	GoInfo        = fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
)
