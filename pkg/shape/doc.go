// Package shape provides rest angle set functions: generators that decide the
// target bend of every spring in a line.
//
// A shape function receives the relative angles of the lines joined at each
// end of its line, the fractional position T of the spring along the line and
// the line's spring count, and returns a target angle in radians. The network
// calls it once per spring when rest angles are initialized.
//
// # Kinds
//
//   - [Constant]: a fixed angle given in degrees
//   - [Average]: mean of the neighbor angles, independent of T
//   - [BasicLerp]: interpolates between the dominant neighbor angle at each end
//   - [Randomized]: uniform draw in ±90° per spring
//   - [Sine]: one full sine cycle across the line
//   - [Pseudorandom]: jagged draws biased by phase bucket
//   - [SequentialSine]: consecutive sine bursts of random length
//   - [SequentialSineBlend]: sequential sine mixed with the average
//
// # Randomness
//
// Stochastic kinds draw from the stream passed in [Input.Rand]. The network
// hands every line its own seeded stream, so two lines never share draws and a
// pattern is reproducible from its seed. Kinds with per-line state implement
// [Binder]; the network binds them once per line before evaluating springs.
//
// # Usage
//
//	fn := shape.New(shape.BasicLerp, 1.0)
//	angle := fn.Angle(shape.Input{
//	    StartAngles: []float64{math.Pi / 2},
//	    EndAngles:   []float64{-math.Pi / 2},
//	    T:           0.25,
//	    Segments:    8,
//	})
package shape
