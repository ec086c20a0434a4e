package protoclust

// mergeClusters computes the sample count and mean vector of the cluster
// formed by merging two clusters of size n1 and n2 with means m1 and m2,
// writing the result into m. For a circular dimension, the shorter path
// around the wrap is used instead of the raw weighted average whenever the
// two means are more than half a range apart; the result is then nudged
// back into [min, max) if the wrap correction pushed it below min.
func mergeClusters(params []ParamDesc, n1, n2 int32, m, m1, m2 []float32) int32 {
	n := n1 + n2
	fn1, fn2, fn := float64(n1), float64(n2), float64(n)
	for i := range m {
		p := params[i]
		if !p.Circular {
			m[i] = float32((fn1*float64(m1[i]) + fn2*float64(m2[i])) / fn)
			continue
		}
		switch {
		case float64(m2[i]-m1[i]) > float64(p.HalfRange()):
			m[i] = float32((fn1*float64(m1[i]) + fn2*float64(m2[i]-p.Range())) / fn)
			if m[i] < p.Min {
				m[i] += p.Range()
			}
		case float64(m1[i]-m2[i]) > float64(p.HalfRange()):
			m[i] = float32((fn1*float64(m1[i]-p.Range()) + fn2*float64(m2[i])) / fn)
			if m[i] < p.Min {
				m[i] += p.Range()
			}
		default:
			m[i] = float32((fn1*float64(m1[i]) + fn2*float64(m2[i])) / fn)
		}
	}
	return n
}
