package algo_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/algoport/algo"
	"github.com/tidwall/gjson"
)

// Greeting is the input shape a typed algorithm declares.
type Greeting struct {
	Name string `json:"name"`
}

// Greeter produces a JSON greeting from a decoded Greeting.
type Greeter struct{}

func (Greeter) ApplyDecoded(ctx context.Context, in Greeting, opts algo.Options) (any, error) {
	return map[string]string{"msg": "Hello " + in.Name}, nil
}

func Example() {
	entry := algo.EntryFunc(func(ctx context.Context, in algo.Value, opts algo.Options) (any, error) {
		name, ok := in.Text()
		if !ok {
			return nil, errors.New("expected text input")
		}
		return "Hello " + name, nil
	})

	d := algo.NewDispatcher(entry)
	res := d.Dispatch(context.Background(), []byte(`{"content_type":"text","data":"Jane"}`))

	line, _ := json.Marshal(res)
	fmt.Println(gjson.GetBytes(line, "result").String())
	// Output: Hello Jane
}

func ExampleDecoded() {
	d := algo.NewDispatcher(algo.Decoded[Greeting](Greeter{}))

	res := d.Dispatch(context.Background(), []byte(`{"content_type":"json","data":{"name":"Jane"}}`))

	line, _ := json.Marshal(res)
	fmt.Println(gjson.GetBytes(line, "result.msg").String())
	// Output: Hello Jane
}

func ExampleDispatcher_Pipe() {
	d := algo.NewDispatcher(algo.EntryFunc(func(ctx context.Context, in algo.Value, opts algo.Options) (any, error) {
		b, _ := in.Bytes()
		return b, nil
	}))

	res := d.Pipe(context.Background(), algo.Binary([]byte("hello\n")), algo.NewOptions())

	out, _ := res.Output()
	b, _ := out.Bytes()
	fmt.Printf("%s", b)
	// Output: hello
}
