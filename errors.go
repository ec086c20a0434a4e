package protoclust

import "errors"

// ErrAlreadyClustered is returned by AddSample when a sample is added after
// ClusterSamples has begun building the cluster tree. Once construction
// starts, the sample set is frozen.
var ErrAlreadyClustered = errors.New("protoclust: cannot add sample after clustering has begun")
