package stage

import (
	"math"

	"github.com/gonewx/vnstage/pkg/ecs"
	"github.com/gonewx/vnstage/pkg/tween"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func testCatalog() MapCatalog {
	return MapCatalog{
		"Helen": {"happy": "helen/happy.png", "sad": "helen/sad.png", "normal": "helen/normal.png"},
		"Evan":  {"normal": "evan/normal.png", "angry": "evan/angry.png"},
		"Mara":  {"normal": "mara/normal.png"},
		"Olin":  {"normal": "olin/normal.png"},
		"Pia":   {"normal": "pia/normal.png"},
	}
}

func newTestDirectory() (*Directory, *tween.Sequencer) {
	em := ecs.NewEntityManager()
	seq := tween.NewSequencer()
	return NewDirectory(em, seq, testCatalog()), seq
}
