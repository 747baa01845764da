package command

import (
	"bufio"
	"context"
	"fmt"
	"github.com/hetianyi/fdfs/api"
	"github.com/hetianyi/gox"
	"github.com/hetianyi/gox/convert"
	"github.com/hetianyi/gox/file"
	"github.com/hetianyi/gox/logger"
	"github.com/hetianyi/gox/timer"
	"sync"
	"sync/atomic"
	"time"
)

var (
	testLock     = new(sync.Mutex)
	testFailed   int32
	testSuccess  int32
	resultBuffer *bufio.Writer
)

// handleTestUploadFile uploads generated files from testThread
// goroutines and prints the throughput.
func handleTestUploadFile() error {
	client, registry := newClient()
	defer registry.Close()

	out, err := file.CreateFile("test-result.txt")
	if err != nil {
		return err
	}
	defer out.Close()

	resultBuffer = bufio.NewWriterSize(out, 1<<15)

	showTestProgress(testScale)

	startTime := gox.GetTimestamp(time.Now())
	waitGroup := sync.WaitGroup{}
	step := testScale / testThread

	waitGroup.Add(testThread)
	for i := 1; i <= testThread; i++ {
		if i == testThread {
			go uploadTask(client, (i-1)*step, testScale, &waitGroup)
		} else {
			go uploadTask(client, (i-1)*step, i*step, &waitGroup)
		}
	}
	waitGroup.Wait()

	endTime := gox.GetTimestamp(time.Now())
	if endTime-startTime < 1000 {
		endTime = startTime + 1000 // at least one sec.
	}
	testLock.Lock()
	resultBuffer.Flush()
	testLock.Unlock()

	fmt.Println("+---------------------------+")
	fmt.Println("| total  :", testScale)
	fmt.Println("| failed :", atomic.LoadInt32(&testFailed))
	fmt.Println("| time   :", (endTime-startTime)/1000, "s")
	fmt.Println("| average:", int64(testScale)/((endTime-startTime)/1000), "/s")
	fmt.Println("+---------------------------+")
	return nil
}

func uploadTask(client api.ClientAPI, start int, end int, waitGroup *sync.WaitGroup) {
	defer waitGroup.Done()
	for i := start; i < end; i++ {
		data := []byte(convert.IntToStr(i))
		ret, err := client.UploadToGroup(context.Background(), uploadGroup, data, "txt")
		if err != nil {
			logger.Error(err)
			atomic.AddInt32(&testFailed, 1)
			continue
		}
		writeResult(ret.FileId())
		atomic.AddInt32(&testSuccess, 1)
	}
}

func writeResult(fileId string) {
	testLock.Lock()
	defer testLock.Unlock()

	resultBuffer.WriteString(fileId)
	resultBuffer.WriteByte('\n')
}

func showTestProgress(total int) {
	timer.Start(0, 0, time.Millisecond*20, func(t *timer.Timer) {
		fmt.Print(atomic.LoadInt32(&testSuccess), "/", total, "\r")
	})
}
