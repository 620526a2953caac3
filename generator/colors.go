package generator

import (
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// Binding pairs each pool number with a colour. Numbers is the display
// order shown to the player.
type Binding struct {
	Numbers []int
	Colors  map[int]string
}

func (b Binding) Color(n int) (string, bool) {
	c, ok := b.Colors[n]
	return c, ok
}

// Palette returns n distinct colours spread around the hue wheel from a
// random base hue, each jittered by up to 10 degrees.
func Palette(rng *rand.Rand, n int) []colorful.Color {
	colors := make([]colorful.Color, n)
	if n == 0 {
		return colors
	}
	base := float64(rng.Intn(360))
	step := 360.0 / float64(n)
	for i := range colors {
		jitter := rng.Float64()*20 - 10
		hue := float64(int(base+float64(i)*step+jitter+360) % 360)
		sat := float64(70+rng.Intn(16)) / 100
		light := float64(50+rng.Intn(11)) / 100
		colors[i] = colorful.Hsl(hue, sat, light)
	}
	return colors
}

// Bind shuffles the pool into display order and assigns a fresh colour to
// every number.
func Bind(rng *rand.Rand, pool []int) Binding {
	numbers := append([]int(nil), pool...)
	rng.Shuffle(len(numbers), func(i, j int) { numbers[i], numbers[j] = numbers[j], numbers[i] })
	palette := Palette(rng, len(numbers))
	b := Binding{Numbers: numbers, Colors: make(map[int]string, len(numbers))}
	for i, n := range numbers {
		b.Colors[n] = palette[i].Clamped().Hex()
	}
	return b
}
