package game

// UpdateHeadless runs one update without any frontend: it polls the
// configured input source and steps with the fixed timestep.
func (g *Game) UpdateHeadless() {
	if g.done {
		return
	}
	g.perfCollector.StartTick()
	g.frame(g.input.Poll(), g.frameDT())
	g.perfCollector.EndTick()
}
