package app

// Version is stamped at build time:
//
//	go build -ldflags="-X 'deptportal/internal/app.Version=1.0.0'"
var Version = "dev"
