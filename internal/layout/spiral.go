// Package layout вычисляет размещение плиток посетителей и напитков на сетке.
package layout

// Origin смещает все клетки спирали так, чтобы координаты на экранной сетке
// оставались неотрицательными.
var Origin = Cell{X: 50, Y: 50}

// Cell описывает клетку сетки.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add возвращает сумму клеток.
func (c Cell) Add(o Cell) Cell {
	return Cell{X: c.X + o.X, Y: c.Y + o.Y}
}

// Порядок поворотов: вправо, вниз, влево, вверх.
var directions = [4]Cell{
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 0, Y: -1},
}

// Walker обходит квадратную спираль шаг за шагом. Нулевое значение стоит в
// начале координат и готово к использованию.
type Walker struct {
	pos   Cell
	dir   int
	side  int
	steps int
	turns int
}

// Cell возвращает текущую клетку с учётом смещения Origin.
func (w *Walker) Cell() Cell {
	return w.pos.Add(Origin)
}

// Step продвигает обход на одну клетку и возвращает новую позицию.
func (w *Walker) Step() Cell {
	if w.side == 0 {
		w.side = 1
	}

	w.pos = w.pos.Add(directions[w.dir])
	w.steps++

	if w.steps == w.side {
		w.steps = 0
		w.dir = (w.dir + 1) % len(directions)
		w.turns++
		if w.turns == 2 {
			w.side++
			w.turns = 0
		}
	}

	return w.Cell()
}

// Place возвращает клетку n-й динамически добавленной плитки (n начинается с 0).
// Результат зависит только от n.
func Place(n int) Cell {
	var w Walker
	for i := 0; i < n; i++ {
		w.Step()
	}
	return w.Cell()
}

// Spiral возвращает клетки для плиток с индексами 0..count-1 за один проход.
func Spiral(count int) []Cell {
	if count <= 0 {
		return nil
	}

	cells := make([]Cell, 0, count)
	var w Walker
	cells = append(cells, w.Cell())
	for len(cells) < count {
		cells = append(cells, w.Step())
	}
	return cells
}
