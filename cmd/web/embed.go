package web

import "embed"

//go:generate go generate ../../assets

//go:embed templates/*
var Templates embed.FS
