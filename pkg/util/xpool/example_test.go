package xpool_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/omeyang/xsched/pkg/util/xpool"
)

func Example() {
	var count atomic.Int32

	pool, err := xpool.New(2, 10)
	if err != nil {
		panic(err)
	}

	for range 5 {
		if err := pool.Submit(func() { count.Add(1) }); err != nil {
			fmt.Println("Submit error:", err)
		}
	}

	// Close 等待所有任务处理完成
	pool.Close()

	fmt.Println("Processed:", count.Load())
	// Output:
	// Processed: 5
}

func ExamplePool_Shutdown() {
	pool, err := xpool.New(2, 10)
	if err != nil {
		panic(err)
	}

	for range 5 {
		if err := pool.Submit(func() {}); err != nil {
			fmt.Println("Submit error:", err)
		}
	}

	// 带超时的优雅关闭
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pool.Shutdown(ctx); err != nil {
		fmt.Println("Shutdown error:", err)
	}

	fmt.Println("shutdown complete")
	// Output:
	// shutdown complete
}
