package carousel

// Slide is one image of the sign-up slideshow.
type Slide struct {
	Src    string `yaml:"src"`
	Alt    string `yaml:"alt"`
	Credit string `yaml:"credit"`
}

// DefaultSlides is the built-in slideshow, used when no manifest is configured.
func DefaultSlides() []Slide {
	return []Slide{
		{Src: "/images/SignupSlider1.png", Alt: "Signup slider image 1", Credit: "Work by Kanmi Osho"},
		{Src: "/images/SignupSlider2.png", Alt: "Signup slider image 2", Credit: "Work by David Adewole 🇳🇬"},
		{Src: "/images/SignupSlider3.png", Alt: "Signup slider image 3", Credit: "Work by Kondwani Jere 🇿🇲"},
		{Src: "/images/SignupSlider4.png", Alt: "Signup slider image 4", Credit: "Work by Helder 🇿🇦"},
	}
}
