package domain

// Color is an RGBA color with 8-bit channels.
type Color struct {
	Red   int `json:"red"`
	Green int `json:"green"`
	Blue  int `json:"blue"`
	Alpha int `json:"alpha"`
}

var (
	DefaultFontColor       = Color{Red: 0, Green: 0, Blue: 0, Alpha: 255}
	DefaultBackgroundColor = Color{Red: 255, Green: 255, Blue: 255, Alpha: 255}
)

func (c Color) valid() bool {
	for _, v := range [...]int{c.Red, c.Green, c.Blue, c.Alpha} {
		if v < 0 || v > 255 {
			return false
		}
	}
	return true
}

func checkColor(c Color) error {
	if !c.valid() {
		return invalid("color component out of range: %+v", c)
	}
	return nil
}

func colorOr(c *Color, def Color) (Color, error) {
	if c == nil {
		return def, nil
	}
	if err := checkColor(*c); err != nil {
		return Color{}, err
	}
	return *c, nil
}
