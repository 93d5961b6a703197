package sprite

// ModeData is the per-sprite scratch record owned by the active mode.
// Exactly one variant is set at a time; a mode switch overwrites it.
type ModeData interface {
	modeData()
}

// SnakeData tracks a sprite's place in the perimeter chain.
type SnakeData struct {
	Progress  float64 // Path fraction in [0, 1)
	Collected bool
	Order     int // Collection order, head is 0
}

// PachinkoData tracks a sprite through the drop sequence.
type PachinkoData struct {
	Waiting   bool // Staged above the board, not yet released
	DropOrder int
	Scored    bool
	Score     int
	Slot      int // Landed slot, -1 before landing
}

// RaceData tracks a participant in the lane race.
type RaceData struct {
	Lane     int
	Join     int // Join order among participants
	Progress float64
	Speed    float64
	Finished bool
}

func (*SnakeData) modeData()    {}
func (*PachinkoData) modeData() {}
func (*RaceData) modeData()     {}

// Snake returns the snake variant or nil.
func (s *Sprite) Snake() *SnakeData {
	d, _ := s.Data.(*SnakeData)
	return d
}

// Pachinko returns the pachinko variant or nil.
func (s *Sprite) Pachinko() *PachinkoData {
	d, _ := s.Data.(*PachinkoData)
	return d
}

// Race returns the race variant or nil.
func (s *Sprite) Race() *RaceData {
	d, _ := s.Data.(*RaceData)
	return d
}

func cloneData(d ModeData) ModeData {
	switch v := d.(type) {
	case *SnakeData:
		c := *v
		return &c
	case *PachinkoData:
		c := *v
		return &c
	case *RaceData:
		c := *v
		return &c
	}
	return nil
}
