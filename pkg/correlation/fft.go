package correlation

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// fftSurface computes the same valid cross-correlation surface as
// slideSurface, but through zero-padded 2-D FFTs. By the correlation
// theorem, the spectrum of the cross-correlation is the previous
// frame's spectrum times the conjugate of the template's spectrum.
//
// Both grids are embedded at the origin of a square padded to the next
// power of two at least the frame side. Because every valid offset
// keeps the template window inside the frame, the circular correlation
// over the padded square equals the linear one on the region we read.
func (c *Correlator) fftSurface(prev, kernel *mat.Dense) *mat.Dense {
	ph, pw := prev.Dims()
	side := ph
	if pw > side {
		side = pw
	}
	size := nextPowerOfTwo(side)

	prevSpec := fft2D(pad(prev, size), size)
	kernSpec := fft2D(pad(kernel, size), size)

	spec := make([]complex128, size*size)
	for i := range spec {
		spec[i] = prevSpec[i] * cmplx.Conj(kernSpec[i])
	}

	full := ifft2D(spec, size)

	out := c.SurfaceSize()
	surface := mat.NewDense(out, out, nil)
	for r := 0; r < out; r++ {
		for col := 0; col < out; col++ {
			surface.Set(r, col, full[r*size+col])
		}
	}
	return surface
}

// pad embeds a matrix at the origin of a size x size zero grid in
// row-major order.
func pad(m *mat.Dense, size int) []float64 {
	rows, cols := m.Dims()
	data := make([]float64, size*size)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			data[r*size+c] = m.At(r, c)
		}
	}
	return data
}

// nextPowerOfTwo returns the smallest power of two >= n. The recursive
// complex FFT below requires a power-of-two side.
func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size *= 2
	}
	return size
}

// fft2D performs a 2-D Fast Fourier Transform on real input data.
//
// Rows are transformed with Gonum's real-input FFT and expanded to the
// full spectrum via conjugate symmetry; columns are then transformed
// with the recursive complex FFT.
//
// Parameters:
//   - data: input grid as a 1-D array (row-major order)
//   - size: width/height of the square grid (power of two)
//
// Returns:
//   - The 2-D FFT of the input as a 1-D array of complex numbers
func fft2D(data []float64, size int) []complex128 {
	fft := fourier.NewFFT(size)

	result := make([]complex128, size*size)

	rowInput := make([]float64, size)
	rowOutput := make([]complex128, size/2+1) // Gonum FFT output size for real input

	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			rowInput[j] = data[i*size+j]
		}

		fft.Coefficients(rowOutput, rowInput)

		// Expand to the full spectrum using conjugate symmetry:
		// F(n-k) = F*(k)
		for j := 0; j < len(rowOutput); j++ {
			result[i*size+j] = rowOutput[j]
		}
		for j := len(rowOutput); j < size; j++ {
			k := size - j
			result[i*size+j] = complex(real(rowOutput[k]), -imag(rowOutput[k]))
		}
	}

	transformColumns(result, size)

	return result
}

// ifft2D performs the inverse 2-D FFT and returns the real part of the
// result. It reuses the forward transform through conjugation: the
// inverse FFT of X is conj(FFT(conj(X))) / N.
func ifft2D(spec []complex128, size int) []float64 {
	work := make([]complex128, len(spec))
	for i, v := range spec {
		work[i] = cmplx.Conj(v)
	}

	// Forward complex 2-D transform: rows, then columns.
	row := make([]complex128, size)
	for i := 0; i < size; i++ {
		copy(row, work[i*size:(i+1)*size])
		copy(work[i*size:(i+1)*size], complexFFT(row))
	}
	transformColumns(work, size)

	scale := 1 / float64(size*size)
	out := make([]float64, len(spec))
	for i, v := range work {
		out[i] = real(v) * scale
	}
	return out
}

// transformColumns applies the recursive complex FFT to every column of
// a square grid in place.
func transformColumns(data []complex128, size int) {
	colInput := make([]complex128, size)
	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			colInput[i] = data[i*size+j]
		}

		colOutput := complexFFT(colInput)

		for i := 0; i < size; i++ {
			data[i*size+j] = colOutput[i]
		}
	}
}

// complexFFT performs a 1-D FFT on complex input data.
// This is a recursive implementation of the Cooley-Tukey algorithm;
// the input length must be a power of two.
func complexFFT(x []complex128) []complex128 {
	n := len(x)
	if n <= 1 {
		return x
	}

	// Split into even and odd
	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = x[2*i]
		odd[i] = x[2*i+1]
	}

	// Recursive FFT
	even = complexFFT(even)
	odd = complexFFT(odd)

	// Combine results
	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		t := complex(
			math.Cos(-2*math.Pi*float64(k)/float64(n)),
			math.Sin(-2*math.Pi*float64(k)/float64(n)),
		) * odd[k]
		result[k] = even[k] + t
		result[k+n/2] = even[k] - t
	}

	return result
}
