package model

import "time"

type Catalog struct {
	Module     string
	Created    time.Time
	Audiobooks []Audiobook
}

func NewCatalog(module string, audiobooks []Audiobook) Catalog {
	return Catalog{
		Module:     module,
		Created:    time.Now(),
		Audiobooks: audiobooks,
	}
}

// Audiobook is a purchasable listing taken from the drop's NFT metadata.
// Price and Image are optional and empty when the metadata omits them.
type Audiobook struct {
	Id        string
	Name      string
	Desc      string
	WrittenBy string
	Price     string
	Image     string
	Supply    int64
}

type ToastKind string

const (
	TOAST_SUCCESS ToastKind = "success"
	TOAST_ERROR   ToastKind = "error"
)

type Toast struct {
	Kind    ToastKind `json:"kind"`
	Message string    `json:"message"`
}

type Theme string

const (
	THEME_LIGHT Theme = "light"
	THEME_DARK  Theme = "dark"
)

func ParseTheme(value string) Theme {
	if Theme(value) == THEME_DARK {
		return THEME_DARK
	}
	return THEME_LIGHT
}

func (t Theme) Toggle() Theme {
	if t == THEME_DARK {
		return THEME_LIGHT
	}
	return THEME_DARK
}
