package catalog

const defaultEndpointHost = "https://coderunner-klzl.onrender.com"

func builtinLanguages() []Language {
	return []Language{
		{
			ID:        "js",
			Name:      "JavaScript",
			Extension: "js",
			Color:     "#FACC15",
			Lexer:     "javascript",
			Endpoint:  defaultEndpointHost + "/api/run-js",
			DefaultCode: `// Welcome to the Online Code Runner
console.log("Hello, World!");
// You can write your JavaScript code here`,
		},
		{
			ID:        "python",
			Name:      "Python",
			Extension: "py",
			Color:     "#60A5FA",
			Lexer:     "python",
			Endpoint:  defaultEndpointHost + "/api/run-python",
			DefaultCode: `# Welcome to the Online Code Runner
print("Hello, World!")
# You can write your Python code here`,
		},
		{
			ID:        "c",
			Name:      "C",
			Extension: "c",
			Color:     "#3B82F6",
			Lexer:     "c",
			Endpoint:  defaultEndpointHost + "/api/run-c",
			DefaultCode: `#include <stdio.h>

// Welcome to the Online Code Runner
int main() {
    printf("Hello, World!\n");  
    return 0;
}`,
		},
		{
			ID:        "cpp",
			Name:      "C++",
			Extension: "cpp",
			Color:     "#C084FC",
			Lexer:     "c++",
			Endpoint:  defaultEndpointHost + "/api/run-cpp",
			DefaultCode: `#include <iostream>
using namespace std;

// Welcome to the Online Code Runner
int main() {
    cout << "Hello, World!" << endl;
    return 0;
}`,
		},
		{
			ID:        "java",
			Name:      "Java",
			Extension: "java",
			Color:     "#F87171",
			Lexer:     "java",
			Endpoint:  "https://java-app-e7h2.onrender.com/run-java",
			DefaultCode: `// Welcome to the Online Code Runner
import java.util.*;

public class Main {
     public static void main(String[] args) {
        System.out.println("Hello, World!");
    }
}`,
		},
	}
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(builtinLanguages())
	if err != nil {
		panic("catalog: invalid builtin table: " + err.Error())
	}
	return c
}
