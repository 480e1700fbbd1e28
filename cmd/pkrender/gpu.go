//go:build !nogpu

package main

import _ "github.com/gogpu/pixkernel/gpu"
