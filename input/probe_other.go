//go:build !windows

package input

// 非Windows平台暂无修饰键探测，返回零值快照
func probe() Snapshot {
	return Snapshot{}
}
