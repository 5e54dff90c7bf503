package models

type LayerFilter string

const (
	LayerFilterNone LayerFilter = "none"
	LayerFilterBlur LayerFilter = "blur"
)

type LayerAspect string

const (
	LayerAspectFree      LayerAspect = "free"
	LayerAspectSquare    LayerAspect = "1:1"
	LayerAspectLandscape LayerAspect = "16:9"
	LayerAspectPortrait  LayerAspect = "9:16"
)

type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type LayerArea struct {
	Rect Rect `json:"rect"`
}

type Layer struct {
	ID          int         `json:"id"`
	ZIndex      int         `json:"zIndex"`
	BorderColor string      `json:"borderColor"`
	Input       LayerArea   `json:"input"`
	Output      LayerArea   `json:"output"`
	Locked      bool        `json:"locked"`
	Filter      LayerFilter `json:"filter"`
	Aspect      LayerAspect `json:"aspect"`
}

func (f LayerFilter) Valid() bool {
	switch f {
	case LayerFilterNone, LayerFilterBlur:
		return true
	}
	return false
}

func (a LayerAspect) Valid() bool {
	switch a {
	case LayerAspectFree, LayerAspectSquare, LayerAspectLandscape, LayerAspectPortrait:
		return true
	}
	return false
}
