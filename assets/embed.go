package assets

import (
	"embed"
)

//go:generate npx -y @tailwindcss/cli -i css/input.css -o build/css/app.css --minify

//go:embed build/*
var Static embed.FS

//go:embed robots.txt
var RobotsTxt string
